package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Channel identifies an outbound publication target.
type Channel string

const (
	ChannelSocial     Channel = "social"
	ChannelNewsletter Channel = "newsletter"
)

// Publication records one outbound send for a post.
type Publication struct {
	ID          uuid.UUID
	Channel     Channel
	Slug        string
	Title       string
	URL         string
	ExternalID  string
	Recipients  int
	Failures    int
	DryRun      bool
	PublishedAt time.Time
}

// Ledger remembers which posts were already published per channel so that
// auto-detect runs can be repeated safely.
type Ledger interface {
	Has(ctx context.Context, channel Channel, slug string) (bool, error)
	Record(ctx context.Context, publication Publication) (*Publication, error)
	List(ctx context.Context, channel Channel) ([]Publication, error)
}
