package tmdb

import "errors"

// ErrNotFound indicates TMDB has no record for the requested resource.
// A valid, non-error empty result set is distinct from this.
var ErrNotFound = errors.New("tmdb: not found")
