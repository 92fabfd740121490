package models

import "time"

// MediaSummary is the shape the aggregation and recommendation layers
// work with. It is never persisted; it is built fresh from TMDB responses
// (or served from the short-lived search cache) on every request.
type MediaSummary struct {
	ID          int       `json:"id"`
	Type        MediaType `json:"media_type"`
	Title       string    `json:"title"`
	PosterPath  string    `json:"poster_path,omitempty"`
	PosterURL   string    `json:"poster_url"` // CDN url, placeholder when no poster exists
	Rating      float64   `json:"rating"`
	Popularity  float64   `json:"popularity"`
	ReleaseDate string    `json:"release_date,omitempty"` // ISO date, empty when unknown
	GenreIDs    []int     `json:"genre_ids,omitempty"`
	Genres      []string  `json:"genres,omitempty"`
}

// Key returns the composite identity of the summary.
func (m MediaSummary) Key() MediaKey {
	return Key(m.ID, m.Type)
}

// ListMembership associates a media item with one of a user's lists.
// At most one membership may exist per (user, media id, media type, list
// type); the store rejects duplicates with ErrDuplicateMembership.
type ListMembership struct {
	ID        uint64 `boltholdKey:"ID"`
	UserID    string `boltholdIndex:"UserID"`
	MediaID   int
	MediaType MediaType
	ListType  ListType
	AddedAt   time.Time
}

// Key returns the composite identity of the tracked media item.
func (m ListMembership) Key() MediaKey {
	return Key(m.MediaID, m.MediaType)
}

// Profile is a user profile record
type Profile struct {
	ID        string `boltholdKey:"ID"`
	Username  string
	AvatarURL string
	Bio       string
	// Free-text genre preferences, as entered by the user
	GenrePreferences string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Room is a watch room record
type Room struct {
	ID          string `boltholdKey:"ID"`
	Name        string
	Description string
	CreatorID   string `boltholdIndex:"CreatorID"`
	JoinCode    string `boltholdIndex:"JoinCode"`
	IsPrivate   bool
	CreatedAt   time.Time
}

// RoomMember links a user to a room with a role
type RoomMember struct {
	ID       uint64 `boltholdKey:"ID"`
	RoomID   string `boltholdIndex:"RoomID"`
	UserID   string `boltholdIndex:"UserID"`
	Role     RoomRole
	JoinedAt time.Time
}

// ShareLink is a generated, tokenized pointer to one of a user's lists
type ShareLink struct {
	Token          string `boltholdKey:"Token"`
	UserID         string `boltholdIndex:"UserID"`
	ListType       ListType
	IncludeNotes   bool
	IncludeRatings bool
	CreatedAt      time.Time
}
