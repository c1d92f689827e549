package ytcomments

import (
	"errors"
	"fmt"
)

// ErrNoSortMenu is returned when the requested comment ordering cannot be
// resolved: the page offers no sort menu even after the section-list
// fallback, or the requested sort index is out of range.
var ErrNoSortMenu = errors.New("unable to resolve comment sorting")

// ErrServerMessage carries an error message reported by YouTube inside an
// otherwise well-formed continuation response.
type ErrServerMessage struct {
	Message string
}

func (e *ErrServerMessage) Error() string {
	return "error returned from server: " + e.Message
}

// ErrMissingToolbarState indicates a comment entity referencing a toolbar
// state that its own response did not deliver.
type ErrMissingToolbarState struct {
	CommentID string
	Key       string
}

func (e *ErrMissingToolbarState) Error() string {
	return fmt.Sprintf("no toolbar state %q for comment %s", e.Key, e.CommentID)
}

type ErrUnexpectedStatusCode int

func (err ErrUnexpectedStatusCode) Error() string {
	return fmt.Sprintf("unexpected status code: %d", int(err))
}
