package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Trending retrieves the trending list for a media type ("all", "movie",
// "tv", "person") over a time window ("day" or "week").
func (c *Client) Trending(ctx context.Context, mediaType, window string) (*MediaPage, error) {
	path := fmt.Sprintf("/trending/%s/%s", mediaType, window)

	var page MediaPage
	if err := c.doRequest(ctx, path, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to get trending: %w", err)
	}
	return &page, nil
}

// PopularMovies retrieves the popular movies list
func (c *Client) PopularMovies(ctx context.Context, page int) (*MoviePage, error) {
	return c.movieList(ctx, "/movie/popular", page)
}

// TopRatedMovies retrieves the top rated movies list
func (c *Client) TopRatedMovies(ctx context.Context, page int) (*MoviePage, error) {
	return c.movieList(ctx, "/movie/top_rated", page)
}

// UpcomingMovies retrieves the upcoming movies list
func (c *Client) UpcomingMovies(ctx context.Context, page int) (*MoviePage, error) {
	return c.movieList(ctx, "/movie/upcoming", page)
}

// PopularTVShows retrieves the popular tv shows list
func (c *Client) PopularTVShows(ctx context.Context, page int) (*TVPage, error) {
	return c.tvList(ctx, "/tv/popular", page)
}

// TopRatedTVShows retrieves the top rated tv shows list
func (c *Client) TopRatedTVShows(ctx context.Context, page int) (*TVPage, error) {
	return c.tvList(ctx, "/tv/top_rated", page)
}

// OnTheAirTVShows retrieves the currently airing tv shows list
func (c *Client) OnTheAirTVShows(ctx context.Context, page int) (*TVPage, error) {
	return c.tvList(ctx, "/tv/on_the_air", page)
}

func (c *Client) movieList(ctx context.Context, path string, page int) (*MoviePage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(pageOrFirst(page)))

	var result MoviePage
	if err := c.doRequest(ctx, path, params, &result); err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", path, err)
	}
	return &result, nil
}

func (c *Client) tvList(ctx context.Context, path string, page int) (*TVPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(pageOrFirst(page)))

	var result TVPage
	if err := c.doRequest(ctx, path, params, &result); err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", path, err)
	}
	return &result, nil
}

// MovieDetails retrieves a movie with its similar titles attached
func (c *Client) MovieDetails(ctx context.Context, movieID int) (*MovieDetails, error) {
	params := url.Values{}
	params.Set("append_to_response", "videos,credits,similar")

	var details MovieDetails
	path := fmt.Sprintf("/movie/%d", movieID)
	if err := c.doRequest(ctx, path, params, &details); err != nil {
		return nil, fmt.Errorf("failed to get movie details: %w", err)
	}
	return &details, nil
}

// TVShowDetails retrieves a tv show with its similar titles attached
func (c *Client) TVShowDetails(ctx context.Context, tvID int) (*TVDetails, error) {
	params := url.Values{}
	params.Set("append_to_response", "videos,credits,similar")

	var details TVDetails
	path := fmt.Sprintf("/tv/%d", tvID)
	if err := c.doRequest(ctx, path, params, &details); err != nil {
		return nil, fmt.Errorf("failed to get tv details: %w", err)
	}
	return &details, nil
}

// MovieGenres retrieves the movie genre list
func (c *Client) MovieGenres(ctx context.Context) ([]Genre, error) {
	var result struct {
		Genres []Genre `json:"genres"`
	}
	if err := c.doRequest(ctx, "/genre/movie/list", nil, &result); err != nil {
		return nil, fmt.Errorf("failed to get movie genres: %w", err)
	}
	return result.Genres, nil
}

// TVGenres retrieves the tv genre list
func (c *Client) TVGenres(ctx context.Context) ([]Genre, error) {
	var result struct {
		Genres []Genre `json:"genres"`
	}
	if err := c.doRequest(ctx, "/genre/tv/list", nil, &result); err != nil {
		return nil, fmt.Errorf("failed to get tv genres: %w", err)
	}
	return result.Genres, nil
}

func pageOrFirst(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
