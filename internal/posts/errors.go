package posts

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const postNotFoundCode = "POST_NOT_FOUND"

// ErrPostNotFound is returned when an explicitly requested slug matches no post.
var ErrPostNotFound = errors.New("posts: post not found")

func notFound(slug string) error {
	return goerrors.Wrap(ErrPostNotFound, goerrors.CategoryNotFound, fmt.Sprintf("post %q not found", slug)).
		WithTextCode(postNotFoundCode)
}
