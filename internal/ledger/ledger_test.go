package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-crosspost/internal/identity"
	"github.com/goliatone/go-crosspost/pkg/interfaces"
	"github.com/goliatone/go-crosspost/pkg/testsupport"
)

func exerciseLedger(t *testing.T, l interfaces.Ledger) {
	t.Helper()
	ctx := context.Background()

	has, err := l.Has(ctx, interfaces.ChannelSocial, "azure-review")
	if err != nil || has {
		t.Fatalf("expected empty ledger, got has=%v err=%v", has, err)
	}

	stored, err := l.Record(ctx, interfaces.Publication{
		Channel:    interfaces.ChannelSocial,
		Slug:       "azure-review",
		Title:      "Azure Review",
		URL:        "https://azureviking.com/post/azure-review/",
		ExternalID: "urn:li:share:1",
	})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if stored.ID != identity.PublicationUUID("social", "azure-review") {
		t.Fatalf("expected deterministic id, got %s", stored.ID)
	}
	if stored.PublishedAt.IsZero() {
		t.Fatal("expected published timestamp")
	}

	if _, err := l.Record(ctx, interfaces.Publication{
		Channel:    interfaces.ChannelSocial,
		Slug:       "azure-review",
		ExternalID: "urn:li:share:2",
	}); err != nil {
		t.Fatalf("second Record returned error: %v", err)
	}
	if _, err := l.Record(ctx, interfaces.Publication{
		Channel:     interfaces.ChannelNewsletter,
		Slug:        "azure-review",
		Recipients:  10,
		Failures:    1,
		PublishedAt: time.Now().Add(time.Minute),
	}); err != nil {
		t.Fatalf("newsletter Record returned error: %v", err)
	}

	has, err = l.Has(ctx, interfaces.ChannelSocial, "azure-review")
	if err != nil || !has {
		t.Fatalf("expected recorded publication, got has=%v err=%v", has, err)
	}

	social, err := l.List(ctx, interfaces.ChannelSocial)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(social) != 1 || social[0].ExternalID != "urn:li:share:2" {
		t.Fatalf("expected upserted social record, got %+v", social)
	}

	all, err := l.List(ctx, "")
	if err != nil {
		t.Fatalf("List(all) returned error: %v", err)
	}
	if len(all) != 2 || all[1].Recipients != 10 || all[1].Failures != 1 {
		t.Fatalf("unexpected publications %+v", all)
	}

	if _, err := l.Record(ctx, interfaces.Publication{Channel: interfaces.ChannelSocial}); !errors.Is(err, ErrSlugRequired) {
		t.Fatalf("expected ErrSlugRequired, got %v", err)
	}
	if _, err := l.Record(ctx, interfaces.Publication{Slug: "x"}); !errors.Is(err, ErrChannelRequired) {
		t.Fatalf("expected ErrChannelRequired, got %v", err)
	}
}

func TestMemoryLedger(t *testing.T) {
	exerciseLedger(t, NewMemory())
}

func TestBunLedger(t *testing.T) {
	ledger := NewBunLedger(testsupport.NewSQLiteDB(t))
	if err := ledger.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema returned error: %v", err)
	}
	exerciseLedger(t, ledger)
}

func TestBunLedgerRequiresDatabase(t *testing.T) {
	ledger := NewBunLedger(nil)
	if _, err := ledger.Has(context.Background(), interfaces.ChannelSocial, "x"); !errors.Is(err, ErrDatabaseRequired) {
		t.Fatalf("expected ErrDatabaseRequired, got %v", err)
	}
}

func TestOpenWithoutDSNReturnsMemoryLedger(t *testing.T) {
	l, closeFn, err := Open(context.Background(), " ")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer closeFn()
	if _, ok := l.(*Memory); !ok {
		t.Fatalf("expected memory ledger, got %T", l)
	}
}

func TestOpenSQLiteDSN(t *testing.T) {
	l, closeFn, err := Open(context.Background(), "sqlite://file:open_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer closeFn()
	if _, ok := l.(*BunLedger); !ok {
		t.Fatalf("expected bun ledger, got %T", l)
	}
	if _, err := l.Record(context.Background(), interfaces.Publication{Channel: interfaces.ChannelNewsletter, Slug: "a"}); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
}
