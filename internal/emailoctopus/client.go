package emailoctopus

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-crosspost/internal/logging"
	"github.com/goliatone/go-crosspost/internal/transport"
	"github.com/goliatone/go-crosspost/pkg/interfaces"
)

const (
	// DefaultBaseURL is the EmailOctopus API host.
	DefaultBaseURL = "https://api.emailoctopus.com"
	// DefaultPageSize is the contact listing page size.
	DefaultPageSize = 100
	// DefaultBatchSize is the number of contacts per batch field update.
	DefaultBatchSize = 50
	// DefaultThrottle keeps requests under the documented rate ceiling.
	DefaultThrottle = 120 * time.Millisecond

	statusSubscribed = "subscribed"
)

// Contact is a list subscriber.
type Contact struct {
	ID           string         `json:"id"`
	EmailAddress string         `json:"email_address"`
	Status       string         `json:"status"`
	Fields       map[string]any `json:"fields,omitempty"`
}

// Client calls the EmailOctopus contacts and automation endpoints.
type Client struct {
	api       *transport.Client
	listID    string
	pageSize  int
	batchSize int
	logger    interfaces.Logger
}

// Config configures a Client.
type Config struct {
	BaseURL   string
	APIKey    string
	ListID    string
	PageSize  int
	BatchSize int
	Throttle  time.Duration
}

// NewClient builds a client with its own throttled transport. A zero
// Throttle disables request spacing.
func NewClient(cfg Config, logger interfaces.Logger, opts ...transport.Option) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	api := transport.New(transport.Config{
		BaseURL:  cfg.BaseURL,
		Token:    cfg.APIKey,
		Throttle: cfg.Throttle,
	}, append([]transport.Option{transport.WithLogger(logger)}, opts...)...)

	return &Client{
		api:       api,
		listID:    cfg.ListID,
		pageSize:  cfg.PageSize,
		batchSize: cfg.BatchSize,
		logger:    logger,
	}
}

type contactsPage struct {
	Data   []Contact `json:"data"`
	Paging struct {
		Next *struct {
			StartingAfter string `json:"starting_after"`
		} `json:"next"`
	} `json:"paging"`
}

// ListSubscribedContacts walks every page of subscribed contacts.
func (c *Client) ListSubscribedContacts(ctx context.Context) ([]Contact, error) {
	var contacts []Contact
	cursor := ""
	for {
		query := url.Values{
			"limit":  []string{strconv.Itoa(c.pageSize)},
			"status": []string{statusSubscribed},
		}
		if cursor != "" {
			query.Set("starting_after", cursor)
		}

		var page contactsPage
		if _, err := c.api.JSON(ctx, transport.Request{
			Method: http.MethodGet,
			Path:   fmt.Sprintf("/lists/%s/contacts", url.PathEscape(c.listID)),
			Query:  query,
		}, &page); err != nil {
			return nil, err
		}
		contacts = append(contacts, page.Data...)
		c.logger.Debug("emailoctopus.contacts.page", "count", len(page.Data), "total", len(contacts))

		if page.Paging.Next == nil || page.Paging.Next.StartingAfter == "" || page.Paging.Next.StartingAfter == cursor {
			return contacts, nil
		}
		cursor = page.Paging.Next.StartingAfter
	}
}

type batchUpdate struct {
	Contacts []contactFields `json:"contacts"`
}

type contactFields struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

// UpdateFields sets the same custom fields on every contact using batched
// PUT requests. progress is called after each batch with the running total.
func (c *Client) UpdateFields(ctx context.Context, contacts []Contact, fields map[string]string, progress func(done int)) error {
	for start := 0; start < len(contacts); start += c.batchSize {
		end := min(start+c.batchSize, len(contacts))

		body := batchUpdate{Contacts: make([]contactFields, 0, end-start)}
		for _, contact := range contacts[start:end] {
			body.Contacts = append(body.Contacts, contactFields{ID: contact.ID, Fields: fields})
		}

		if _, err := c.api.Do(ctx, transport.Request{
			Method: http.MethodPut,
			Path:   fmt.Sprintf("/lists/%s/contacts/batch", url.PathEscape(c.listID)),
			Body:   body,
		}); err != nil {
			return fmt.Errorf("update fields for contacts %d-%d: %w", start+1, end, err)
		}
		c.logger.Debug("emailoctopus.fields.batch", "from", start+1, "to", end, "total", len(contacts))
		if progress != nil {
			progress(end)
		}
	}
	return nil
}

type queueRequest struct {
	ContactID string `json:"contact_id"`
}

// QueueAutomation starts the automation for one contact.
func (c *Client) QueueAutomation(ctx context.Context, automationID, contactID string) error {
	_, err := c.api.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/automations/%s/queue", url.PathEscape(automationID)),
		Body:   queueRequest{ContactID: contactID},
	})
	return err
}
