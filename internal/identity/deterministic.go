package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
// Keys are prefixed per record type so different records never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceURL, []byte(trimmed))
	}
	return uid
}

// PublicationUUID identifies the publication of a post slug on a channel.
func PublicationUUID(channel, slug string) uuid.UUID {
	return UUID("crosspost:publication:" + strings.ToLower(strings.TrimSpace(channel)) + ":" + strings.TrimSpace(slug))
}

// RunID returns a random identifier attached to every log entry of one
// command run.
func RunID() string {
	return uuid.NewString()
}
