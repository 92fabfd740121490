package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DiscoverParams are the filters supported by the TMDB discover endpoints.
// Discover has no free-text query; text search and filtered browse are
// separate modes.
type DiscoverParams struct {
	GenreIDs  []int
	YearFrom  int     // inclusive lower bound on release/first-air year
	YearTo    int     // inclusive upper bound
	RatingMin float64 // vote_average.gte
	RatingMax float64 // vote_average.lte, ignored when zero
	SortBy    string  // e.g. "popularity.desc", defaults to popularity.desc
	Page      int
}

func (p DiscoverParams) values(dateField string) url.Values {
	params := url.Values{}

	if len(p.GenreIDs) > 0 {
		ids := make([]string, 0, len(p.GenreIDs))
		for _, id := range p.GenreIDs {
			ids = append(ids, strconv.Itoa(id))
		}
		params.Set("with_genres", strings.Join(ids, ","))
	}
	if p.YearFrom > 0 {
		params.Set(dateField+".gte", fmt.Sprintf("%d-01-01", p.YearFrom))
	}
	if p.YearTo > 0 {
		params.Set(dateField+".lte", fmt.Sprintf("%d-12-31", p.YearTo))
	}
	if p.RatingMin > 0 {
		params.Set("vote_average.gte", strconv.FormatFloat(p.RatingMin, 'f', 1, 64))
	}
	if p.RatingMax > 0 {
		params.Set("vote_average.lte", strconv.FormatFloat(p.RatingMax, 'f', 1, 64))
	}

	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = "popularity.desc"
	}
	params.Set("sort_by", sortBy)
	params.Set("page", strconv.Itoa(pageOrFirst(p.Page)))

	return params
}

// DiscoverMovies browses movies by genre/year/rating filters
func (c *Client) DiscoverMovies(ctx context.Context, p DiscoverParams) (*MoviePage, error) {
	var result MoviePage
	if err := c.doRequest(ctx, "/discover/movie", p.values("primary_release_date"), &result); err != nil {
		return nil, fmt.Errorf("failed to discover movies: %w", err)
	}
	return &result, nil
}

// DiscoverTVShows browses tv shows by genre/year/rating filters
func (c *Client) DiscoverTVShows(ctx context.Context, p DiscoverParams) (*TVPage, error) {
	var result TVPage
	if err := c.doRequest(ctx, "/discover/tv", p.values("first_air_date"), &result); err != nil {
		return nil, fmt.Errorf("failed to discover tv shows: %w", err)
	}
	return &result, nil
}
