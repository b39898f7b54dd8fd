package linkedin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-crosspost/internal/transport"
	"github.com/goliatone/go-crosspost/pkg/interfaces"
)

const (
	// DefaultAPIVersion is the Linkedin-Version header for the snapshot API.
	DefaultAPIVersion = "202312"
	// SnapshotPageDelay spaces snapshot page requests.
	SnapshotPageDelay = time.Second

	snapshotPath      = "/rest/memberSnapshotData"
	snapshotPageSize  = 10
	versionHeader     = "Linkedin-Version"
	noDataFoundMarker = "No data found"
)

// NewSnapshotTransport builds the transport used for member data export.
func NewSnapshotTransport(baseURL, token, version string, opts ...transport.Option) *transport.Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if strings.TrimSpace(version) == "" {
		version = DefaultAPIVersion
	}
	return transport.New(transport.Config{
		BaseURL:  baseURL,
		Token:    token,
		Throttle: SnapshotPageDelay,
		Headers: map[string]string{
			restliHeader:  RestliProtocolVersion,
			versionHeader: version,
		},
	}, opts...)
}

// SnapshotClient pages through the member snapshot API.
type SnapshotClient struct {
	api    *transport.Client
	logger interfaces.Logger
}

// NewSnapshotClient wraps a snapshot transport.
func NewSnapshotClient(api *transport.Client, logger interfaces.Logger) *SnapshotClient {
	return &SnapshotClient{api: api, logger: ensureLogger(logger)}
}

type snapshotPage struct {
	Elements []struct {
		SnapshotData []json.RawMessage `json:"snapshotData"`
	} `json:"elements"`
	Paging struct {
		Links []struct {
			Rel  string `json:"rel"`
			Href string `json:"href"`
		} `json:"links"`
	} `json:"paging"`
}

// Fetch returns every snapshot record for the domain. A 404 or a
// "No data found" response ends the domain without error.
func (c *SnapshotClient) Fetch(ctx context.Context, domain string) ([]json.RawMessage, error) {
	var records []json.RawMessage
	start := 0
	for {
		c.logger.Debug("linkedin.snapshot.page", "domain", domain, "start", start)

		var page snapshotPage
		_, err := c.api.JSON(ctx, transport.Request{
			Method: http.MethodGet,
			Path:   snapshotPath,
			Query: url.Values{
				"q":      []string{"criteria"},
				"domain": []string{domain},
				"start":  []string{strconv.Itoa(start)},
				"count":  []string{strconv.Itoa(snapshotPageSize)},
			},
		}, &page)
		if err != nil {
			if endOfData(err) {
				c.logger.Debug("linkedin.snapshot.end", "domain", domain, "start", start)
				return records, nil
			}
			return records, err
		}

		for _, element := range page.Elements {
			records = append(records, element.SnapshotData...)
		}

		next, ok := nextStart(page, start)
		if !ok {
			return records, nil
		}
		start = next
	}
}

func endOfData(err error) bool {
	apiErr, ok := transport.AsAPIError(err)
	if !ok {
		return false
	}
	return apiErr.Status == http.StatusNotFound || strings.Contains(apiErr.Body, noDataFoundMarker)
}

func nextStart(page snapshotPage, current int) (int, bool) {
	for _, link := range page.Paging.Links {
		if link.Rel != "next" {
			continue
		}
		parsed, err := url.Parse(link.Href)
		if err != nil {
			return current + 1, true
		}
		if value, err := strconv.Atoi(parsed.Query().Get("start")); err == nil && value > current {
			return value, true
		}
		return current + 1, true
	}
	return 0, false
}
