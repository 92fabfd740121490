package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// SearchMovies searches movies by free text
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*MoviePage, error) {
	var result MoviePage
	if err := c.doRequest(ctx, "/search/movie", searchParams(query, page), &result); err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	return &result, nil
}

// SearchTVShows searches tv shows by free text
func (c *Client) SearchTVShows(ctx context.Context, query string, page int) (*TVPage, error) {
	var result TVPage
	if err := c.doRequest(ctx, "/search/tv", searchParams(query, page), &result); err != nil {
		return nil, fmt.Errorf("failed to search tv shows: %w", err)
	}
	return &result, nil
}

// SearchPeople searches people by free text
func (c *Client) SearchPeople(ctx context.Context, query string, page int) (*PersonPage, error) {
	var result PersonPage
	if err := c.doRequest(ctx, "/search/person", searchParams(query, page), &result); err != nil {
		return nil, fmt.Errorf("failed to search people: %w", err)
	}
	return &result, nil
}

// SearchMulti searches movies, tv shows and people in one call
func (c *Client) SearchMulti(ctx context.Context, query string, page int) (*MediaPage, error) {
	var result MediaPage
	if err := c.doRequest(ctx, "/search/multi", searchParams(query, page), &result); err != nil {
		return nil, fmt.Errorf("failed to search multi: %w", err)
	}
	return &result, nil
}

func searchParams(query string, page int) url.Values {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(pageOrFirst(page)))
	return params
}
