package ledger

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-crosspost/internal/identity"
	"github.com/goliatone/go-crosspost/pkg/interfaces"
)

var (
	// ErrDatabaseRequired is returned when the bun ledger has no database.
	ErrDatabaseRequired = errors.New("ledger: bun ledger requires a database")
	// ErrSlugRequired is returned when a publication has no slug.
	ErrSlugRequired = errors.New("ledger: publication slug is required")
	// ErrChannelRequired is returned when a publication has no channel.
	ErrChannelRequired = errors.New("ledger: publication channel is required")
)

type publicationModel struct {
	bun.BaseModel `bun:"table:publications,alias:p"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	Channel     string    `bun:"channel,notnull"`
	Slug        string    `bun:"slug,notnull"`
	Title       string    `bun:"title"`
	URL         string    `bun:"url"`
	ExternalID  string    `bun:"external_id"`
	Recipients  int       `bun:"recipients,notnull,default:0"`
	Failures    int       `bun:"failures,notnull,default:0"`
	DryRun      bool      `bun:"dry_run,notnull,default:false"`
	PublishedAt time.Time `bun:"published_at,notnull"`
}

// BunLedger persists publications with bun.
type BunLedger struct {
	db *bun.DB
}

var _ interfaces.Ledger = (*BunLedger)(nil)

// NewBunLedger constructs a ledger over db.
func NewBunLedger(db *bun.DB) *BunLedger {
	return &BunLedger{db: db}
}

// EnsureSchema creates the publications table when missing.
func (l *BunLedger) EnsureSchema(ctx context.Context) error {
	if l.db == nil {
		return ErrDatabaseRequired
	}
	_, err := l.db.NewCreateTable().Model((*publicationModel)(nil)).IfNotExists().Exec(ctx)
	return err
}

// Has reports whether the slug was already published on the channel.
func (l *BunLedger) Has(ctx context.Context, channel interfaces.Channel, slug string) (bool, error) {
	if l.db == nil {
		return false, ErrDatabaseRequired
	}
	return l.db.NewSelect().
		Model((*publicationModel)(nil)).
		Where("id = ?", identity.PublicationUUID(string(channel), slug)).
		Exists(ctx)
}

// Record inserts or updates the publication for its channel and slug.
func (l *BunLedger) Record(ctx context.Context, publication interfaces.Publication) (*interfaces.Publication, error) {
	if l.db == nil {
		return nil, ErrDatabaseRequired
	}
	if err := validate(publication); err != nil {
		return nil, err
	}

	model := modelFromPublication(publication)
	model.ID = identity.PublicationUUID(model.Channel, model.Slug)
	if model.PublishedAt.IsZero() {
		model.PublishedAt = time.Now().UTC()
	}

	var existing publicationModel
	err := l.db.NewSelect().Model(&existing).Where("id = ?", model.ID).Scan(ctx)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := l.db.NewInsert().Model(&model).Exec(ctx); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if _, err := l.db.NewUpdate().
			Model(&model).
			Column("title", "url", "external_id", "recipients", "failures", "dry_run", "published_at").
			WherePK().
			Exec(ctx); err != nil {
			return nil, err
		}
	}

	out := publicationFromModel(&model)
	return &out, nil
}

// List returns the channel's publications, oldest first. An empty channel
// lists every publication.
func (l *BunLedger) List(ctx context.Context, channel interfaces.Channel) ([]interfaces.Publication, error) {
	if l.db == nil {
		return nil, ErrDatabaseRequired
	}
	var models []publicationModel
	query := l.db.NewSelect().Model(&models).Order("published_at ASC")
	if channel != "" {
		query = query.Where("channel = ?", string(channel))
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]interfaces.Publication, len(models))
	for i := range models {
		out[i] = publicationFromModel(&models[i])
	}
	return out, nil
}

func validate(publication interfaces.Publication) error {
	if strings.TrimSpace(string(publication.Channel)) == "" {
		return ErrChannelRequired
	}
	if strings.TrimSpace(publication.Slug) == "" {
		return ErrSlugRequired
	}
	return nil
}

func modelFromPublication(p interfaces.Publication) publicationModel {
	return publicationModel{
		ID:          p.ID,
		Channel:     strings.TrimSpace(string(p.Channel)),
		Slug:        strings.TrimSpace(p.Slug),
		Title:       p.Title,
		URL:         p.URL,
		ExternalID:  p.ExternalID,
		Recipients:  p.Recipients,
		Failures:    p.Failures,
		DryRun:      p.DryRun,
		PublishedAt: p.PublishedAt.UTC(),
	}
}

func publicationFromModel(m *publicationModel) interfaces.Publication {
	return interfaces.Publication{
		ID:          m.ID,
		Channel:     interfaces.Channel(m.Channel),
		Slug:        m.Slug,
		Title:       m.Title,
		URL:         m.URL,
		ExternalID:  m.ExternalID,
		Recipients:  m.Recipients,
		Failures:    m.Failures,
		DryRun:      m.DryRun,
		PublishedAt: m.PublishedAt,
	}
}
