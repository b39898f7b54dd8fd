package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-crosspost/internal/identity"
	"github.com/goliatone/go-crosspost/pkg/interfaces"
)

// Memory is an in-process ledger used when no database is configured.
type Memory struct {
	mu      sync.RWMutex
	records map[string]interfaces.Publication
}

var _ interfaces.Ledger = (*Memory)(nil)

// NewMemory constructs an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{records: map[string]interfaces.Publication{}}
}

func (m *Memory) Has(_ context.Context, channel interfaces.Channel, slug string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.records[key(channel, slug)]
	return ok, nil
}

func (m *Memory) Record(_ context.Context, publication interfaces.Publication) (*interfaces.Publication, error) {
	if err := validate(publication); err != nil {
		return nil, err
	}
	publication.ID = identity.PublicationUUID(string(publication.Channel), publication.Slug)
	if publication.PublishedAt.IsZero() {
		publication.PublishedAt = time.Now().UTC()
	}

	m.mu.Lock()
	m.records[key(publication.Channel, publication.Slug)] = publication
	m.mu.Unlock()

	out := publication
	return &out, nil
}

func (m *Memory) List(_ context.Context, channel interfaces.Channel) ([]interfaces.Publication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []interfaces.Publication
	for _, record := range m.records {
		if channel == "" || record.Channel == channel {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PublishedAt.Before(out[j].PublishedAt)
	})
	return out, nil
}

func key(channel interfaces.Channel, slug string) string {
	return string(channel) + ":" + slug
}
