package linkedin

import (
	"context"
	"net/http"
	"strings"

	"github.com/goliatone/go-crosspost/internal/logging"
	"github.com/goliatone/go-crosspost/internal/transport"
	"github.com/goliatone/go-crosspost/pkg/interfaces"
)

const (
	// DefaultBaseURL is the LinkedIn API host.
	DefaultBaseURL = "https://api.linkedin.com"
	// RestliProtocolVersion is sent on every request.
	RestliProtocolVersion = "2.0.0"

	sharePath      = "/v2/ugcPosts"
	restliHeader   = "X-Restli-Protocol-Version"
	restliIDHeader = "X-Restli-Id"
)

// Share is an article share on the member's feed.
type Share struct {
	AuthorURN   string
	Text        string
	ArticleURL  string
	Title       string
	Description string
}

// Client talks to the LinkedIn share API.
type Client struct {
	api    *transport.Client
	logger interfaces.Logger
}

// NewClient wraps a transport client configured with the member token.
func NewClient(api *transport.Client, logger interfaces.Logger) *Client {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Client{api: api, logger: logger}
}

// NewTransport builds the transport used for share calls.
func NewTransport(baseURL, token string, opts ...transport.Option) *transport.Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return transport.New(transport.Config{
		BaseURL: baseURL,
		Token:   token,
		Headers: map[string]string{restliHeader: RestliProtocolVersion},
	}, opts...)
}

// Share publishes an article share and returns the created post id.
func (c *Client) Share(ctx context.Context, share Share) (string, error) {
	resp, err := c.api.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   sharePath,
		Body:   newUGCPost(share),
	})
	if err != nil {
		return "", err
	}
	id := resp.Header.Get(restliIDHeader)
	c.logger.Debug("linkedin.share.created", "post_id", id, "url", share.ArticleURL)
	return id, nil
}

type ugcPost struct {
	Author          string          `json:"author"`
	LifecycleState  string          `json:"lifecycleState"`
	SpecificContent specificContent `json:"specificContent"`
	Visibility      visibility      `json:"visibility"`
}

type specificContent struct {
	ShareContent shareContent `json:"com.linkedin.ugc.ShareContent"`
}

type shareContent struct {
	ShareCommentary    text    `json:"shareCommentary"`
	ShareMediaCategory string  `json:"shareMediaCategory"`
	Media              []media `json:"media"`
}

type media struct {
	Status      string `json:"status"`
	OriginalURL string `json:"originalUrl"`
	Title       text   `json:"title"`
	Description text   `json:"description"`
}

type text struct {
	Text string `json:"text"`
}

type visibility struct {
	MemberNetwork string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
}

func newUGCPost(share Share) ugcPost {
	return ugcPost{
		Author:         share.AuthorURN,
		LifecycleState: "PUBLISHED",
		SpecificContent: specificContent{
			ShareContent: shareContent{
				ShareCommentary:    text{Text: share.Text},
				ShareMediaCategory: "ARTICLE",
				Media: []media{{
					Status:      "READY",
					OriginalURL: share.ArticleURL,
					Title:       text{Text: share.Title},
					Description: text{Text: share.Description},
				}},
			},
		},
		Visibility: visibility{MemberNetwork: "PUBLIC"},
	}
}
