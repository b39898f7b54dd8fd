package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-crosspost/internal/transport"
)

func TestShareSendsUGCPayload(t *testing.T) {
	var payload map[string]any
	var restli, auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v2/ugcPosts" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		restli = r.Header.Get("X-Restli-Protocol-Version")
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.Header().Set("x-restli-id", "urn:li:share:42")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(NewTransport(server.URL, "token"), nil)
	id, err := client.Share(context.Background(), Share{
		AuthorURN:   "urn:li:person:abc",
		Text:        "hello",
		ArticleURL:  "https://azureviking.com/post/x/",
		Title:       "X",
		Description: "desc",
	})
	if err != nil {
		t.Fatalf("Share returned error: %v", err)
	}
	if id != "urn:li:share:42" {
		t.Fatalf("expected post id from header, got %q", id)
	}
	if restli != "2.0.0" || auth != "Bearer token" {
		t.Fatalf("unexpected headers restli=%q auth=%q", restli, auth)
	}

	if payload["author"] != "urn:li:person:abc" || payload["lifecycleState"] != "PUBLISHED" {
		t.Fatalf("unexpected payload %v", payload)
	}
	content := payload["specificContent"].(map[string]any)["com.linkedin.ugc.ShareContent"].(map[string]any)
	if content["shareMediaCategory"] != "ARTICLE" {
		t.Fatalf("expected ARTICLE media, got %v", content["shareMediaCategory"])
	}
	if content["shareCommentary"].(map[string]any)["text"] != "hello" {
		t.Fatalf("unexpected commentary %v", content["shareCommentary"])
	}
	media := content["media"].([]any)[0].(map[string]any)
	if media["status"] != "READY" || media["originalUrl"] != "https://azureviking.com/post/x/" {
		t.Fatalf("unexpected media %v", media)
	}
	visibility := payload["visibility"].(map[string]any)
	if visibility["com.linkedin.ugc.MemberNetworkVisibility"] != "PUBLIC" {
		t.Fatalf("unexpected visibility %v", visibility)
	}
}

func TestShareReturnsStatusOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("ACCESS_DENIED"))
	}))
	defer server.Close()

	client := NewClient(NewTransport(server.URL, "token"), nil)
	_, err := client.Share(context.Background(), Share{})
	if transport.StatusCode(err) != http.StatusForbidden {
		t.Fatalf("expected 403 api error, got %v", err)
	}
}

func TestSnapshotFetchFollowsPagingUntilNotFound(t *testing.T) {
	var starts []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := r.URL.Query().Get("start")
		starts = append(starts, start)
		if r.URL.Query().Get("domain") != "ARTICLES" || r.URL.Query().Get("count") != "10" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		switch start {
		case "0":
			fmt.Fprint(w, `{"elements":[{"snapshotData":[{"id":1},{"id":2}]}],"paging":{"links":[{"rel":"next","href":"/rest/memberSnapshotData?q=criteria&domain=ARTICLES&start=1&count=10"}]}}`)
		case "1":
			fmt.Fprint(w, `{"elements":[{"snapshotData":[{"id":3}]}],"paging":{"links":[{"rel":"next","href":"/rest/memberSnapshotData?start=2"}]}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"No data found for this member"}`)
		}
	}))
	defer server.Close()

	client := NewSnapshotClient(transport.New(transport.Config{BaseURL: server.URL}), nil)
	records, err := client.Fetch(context.Background(), "ARTICLES")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if strings.Join(starts, ",") != "0,1,2" {
		t.Fatalf("unexpected page starts %v", starts)
	}
}

func TestSnapshotTransportSendsVersionHeader(t *testing.T) {
	var version string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		version = r.Header.Get("Linkedin-Version")
		fmt.Fprint(w, `{"elements":[],"paging":{"links":[]}}`)
	}))
	defer server.Close()

	client := NewSnapshotClient(NewSnapshotTransport(server.URL, "t", ""), nil)
	records, err := client.Fetch(context.Background(), "ALL_COMMENTS")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(records) != 0 || version != DefaultAPIVersion {
		t.Fatalf("unexpected records=%d version=%q", len(records), version)
	}
}

type stubFetcher struct {
	data map[string][]json.RawMessage
	errs map[string]error
}

func (s stubFetcher) Fetch(_ context.Context, domain string) ([]json.RawMessage, error) {
	return s.data[domain], s.errs[domain]
}

func TestExporterWritesFilesAndContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	fetcher := stubFetcher{
		data: map[string][]json.RawMessage{
			"MEMBER_SHARE_INFO": {json.RawMessage(`{"id":1}`)},
		},
		errs: map[string]error{
			"ALL_COMMENTS": fmt.Errorf("boom"),
		},
	}

	result, err := NewExporter(fetcher, dir, nil).Export(context.Background(), nil)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if result.Written["MEMBER_SHARE_INFO"] != 1 || result.Written["ARTICLES"] != 0 {
		t.Fatalf("unexpected written counts %v", result.Written)
	}
	if _, ok := result.Failed["ALL_COMMENTS"]; !ok {
		t.Fatalf("expected ALL_COMMENTS failure, got %v", result.Failed)
	}

	data, err := os.ReadFile(filepath.Join(dir, "articles.json"))
	if err != nil {
		t.Fatalf("expected articles.json: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Fatalf("expected empty array, got %s", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "all-comments.json")); !os.IsNotExist(err) {
		t.Fatalf("expected failed domain not to be written, got %v", err)
	}
}
