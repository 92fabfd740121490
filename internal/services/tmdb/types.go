package tmdb

import "github.com/amaumene/cinesync/internal/models"

// Movie is a movie entry as returned by TMDB list endpoints
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	Popularity   float64 `json:"popularity"`
	GenreIDs     []int   `json:"genre_ids"`
}

// TVShow is a tv entry as returned by TMDB list endpoints
type TVShow struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	Popularity   float64 `json:"popularity"`
	GenreIDs     []int   `json:"genre_ids"`
}

// Person is a person entry as returned by TMDB search
type Person struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	ProfilePath        string  `json:"profile_path"`
	KnownForDepartment string  `json:"known_for_department"`
	Popularity         float64 `json:"popularity"`
}

// MediaItem is a mixed movie/tv entry from multi-media endpoints
// (trending, search/multi). Movies carry title/release_date, shows carry
// name/first_air_date; MediaType disambiguates.
type MediaItem struct {
	ID           int     `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	Popularity   float64 `json:"popularity"`
	GenreIDs     []int   `json:"genre_ids"`
}

// Genre is a TMDB genre record
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MoviePage is the paginated envelope for movie list endpoints
type MoviePage struct {
	Page       int     `json:"page"`
	TotalPages int     `json:"total_pages"`
	Results    []Movie `json:"results"`
}

// TVPage is the paginated envelope for tv list endpoints
type TVPage struct {
	Page       int      `json:"page"`
	TotalPages int      `json:"total_pages"`
	Results    []TVShow `json:"results"`
}

// PersonPage is the paginated envelope for person search
type PersonPage struct {
	Page       int      `json:"page"`
	TotalPages int      `json:"total_pages"`
	Results    []Person `json:"results"`
}

// MediaPage is the paginated envelope for mixed movie/tv endpoints
type MediaPage struct {
	Page       int         `json:"page"`
	TotalPages int         `json:"total_pages"`
	Results    []MediaItem `json:"results"`
}

// MovieDetails is a movie detail response with similar titles attached
// via append_to_response
type MovieDetails struct {
	Movie
	Genres  []Genre    `json:"genres"`
	Runtime int        `json:"runtime"`
	Similar *MoviePage `json:"similar"`
}

// TVDetails is a tv detail response with similar titles attached
type TVDetails struct {
	TVShow
	Genres           []Genre `json:"genres"`
	NumberOfSeasons  int     `json:"number_of_seasons"`
	NumberOfEpisodes int     `json:"number_of_episodes"`
	Similar          *TVPage `json:"similar"`
}

// Summary converts a movie to the aggregation-layer shape
func (m Movie) Summary() models.MediaSummary {
	return models.MediaSummary{
		ID:          m.ID,
		Type:        models.MediaTypeMovie,
		Title:       m.Title,
		PosterPath:  m.PosterPath,
		PosterURL:   PosterURL(m.PosterPath, ""),
		Rating:      m.VoteAverage,
		Popularity:  m.Popularity,
		ReleaseDate: m.ReleaseDate,
		GenreIDs:    m.GenreIDs,
	}
}

// Summary converts a tv show to the aggregation-layer shape
func (t TVShow) Summary() models.MediaSummary {
	return models.MediaSummary{
		ID:          t.ID,
		Type:        models.MediaTypeTV,
		Title:       t.Name,
		PosterPath:  t.PosterPath,
		PosterURL:   PosterURL(t.PosterPath, ""),
		Rating:      t.VoteAverage,
		Popularity:  t.Popularity,
		ReleaseDate: t.FirstAirDate,
		GenreIDs:    t.GenreIDs,
	}
}

// Summary converts a mixed entry to the aggregation-layer shape.
// Falls back from title to name, and from release_date to first_air_date.
func (i MediaItem) Summary() models.MediaSummary {
	title := i.Title
	if title == "" {
		title = i.Name
	}
	date := i.ReleaseDate
	if date == "" {
		date = i.FirstAirDate
	}
	mediaType := models.MediaType(i.MediaType)
	if mediaType != models.MediaTypeMovie && mediaType != models.MediaTypeTV {
		mediaType = models.MediaTypeMovie
	}
	return models.MediaSummary{
		ID:          i.ID,
		Type:        mediaType,
		Title:       title,
		PosterPath:  i.PosterPath,
		PosterURL:   PosterURL(i.PosterPath, ""),
		Rating:      i.VoteAverage,
		Popularity:  i.Popularity,
		ReleaseDate: date,
		GenreIDs:    i.GenreIDs,
	}
}

// GenreIDList extracts genre ids from a detail response's genre records
func GenreIDList(genres []Genre) []int {
	ids := make([]int, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	return ids
}
