package models

import "fmt"

// MediaType represents the type of media (movie or tv show)
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// ListType represents one of the three personal list categories
type ListType string

const (
	ListToWatch  ListType = "to_watch"
	ListWatched  ListType = "watched"
	ListFavorite ListType = "favorite"
)

// ValidListType reports whether s names a known list type.
func ValidListType(s string) bool {
	switch ListType(s) {
	case ListToWatch, ListWatched, ListFavorite:
		return true
	}
	return false
}

// RoomRole represents a member's role inside a watch room
type RoomRole string

const (
	RoleAdmin  RoomRole = "admin"
	RoleMember RoomRole = "member"
)

// MediaKey is the composite identity of a media item. TMDB ids are not
// unique across the movie and tv namespaces, so every map, set and dedup
// step keys on this pair, never on the bare id.
type MediaKey struct {
	ID   int
	Type MediaType
}

// Key builds a MediaKey.
func Key(id int, mediaType MediaType) MediaKey {
	return MediaKey{ID: id, Type: mediaType}
}

// String renders the key as "movie-603" / "tv-1399".
func (k MediaKey) String() string {
	return fmt.Sprintf("%s-%d", k.Type, k.ID)
}
