package controllers

import (
	"context"
	"fmt"
	"time"

	"github.com/amaumene/cinesync/internal/cache"
	"github.com/amaumene/cinesync/internal/models"
	"github.com/amaumene/cinesync/internal/services/tmdb"
	"github.com/sirupsen/logrus"
)

const (
	trendingCacheKey = "trending:all:week"
	genreCacheKey    = "genres:combined"

	trendingCacheTTL = 7 * time.Hour
	genreCacheTTL    = 25 * time.Hour
)

// CatalogController serves browse data from TMDB with caching for the
// hot reads (trending, the genre name table). The scheduler re-warms both
// periodically; a cold cache is filled on first request.
type CatalogController struct {
	tmdbClient    *tmdb.Client
	trendingCache *cache.Cache[[]models.MediaSummary]
	genreCache    *cache.Cache[map[int]string]
	logger        *logrus.Logger
}

// NewCatalogController creates a new catalog controller
func NewCatalogController(tmdbClient *tmdb.Client, logger *logrus.Logger) *CatalogController {
	return &CatalogController{
		tmdbClient:    tmdbClient,
		trendingCache: cache.New[[]models.MediaSummary](trendingCacheTTL),
		genreCache:    cache.New[map[int]string](genreCacheTTL),
		logger:        logger,
	}
}

// Trending returns the trending-this-week list (movies and tv only),
// served from cache when warm.
func (c *CatalogController) Trending(ctx context.Context) ([]models.MediaSummary, error) {
	if items, ok := c.trendingCache.Get(trendingCacheKey); ok {
		return items, nil
	}
	return c.WarmTrending(ctx)
}

// WarmTrending fetches trending fresh and repopulates the cache.
func (c *CatalogController) WarmTrending(ctx context.Context) ([]models.MediaSummary, error) {
	page, err := c.tmdbClient.Trending(ctx, "all", "week")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trending: %w", err)
	}

	items := make([]models.MediaSummary, 0, len(page.Results))
	for _, item := range page.Results {
		if item.MediaType != string(models.MediaTypeMovie) && item.MediaType != string(models.MediaTypeTV) {
			continue
		}
		items = append(items, item.Summary())
	}

	c.trendingCache.Put(trendingCacheKey, items)
	return items, nil
}

// Genres returns the combined movie+tv genre table, keyed by genre id.
func (c *CatalogController) Genres(ctx context.Context) (map[int]string, error) {
	if table, ok := c.genreCache.Get(genreCacheKey); ok {
		return table, nil
	}
	return c.RefreshGenres(ctx)
}

// RefreshGenres fetches both genre lists and repopulates the cache.
// Movie and tv genres share ids for overlapping names; the combined table
// dedups by id.
func (c *CatalogController) RefreshGenres(ctx context.Context) (map[int]string, error) {
	movieGenres, err := c.tmdbClient.MovieGenres(ctx)
	if err != nil {
		return nil, err
	}
	tvGenres, err := c.tmdbClient.TVGenres(ctx)
	if err != nil {
		return nil, err
	}

	table := make(map[int]string, len(movieGenres)+len(tvGenres))
	for _, g := range movieGenres {
		table[g.ID] = g.Name
	}
	for _, g := range tvGenres {
		if _, ok := table[g.ID]; !ok {
			table[g.ID] = g.Name
		}
	}

	c.genreCache.Put(genreCacheKey, table)
	return table, nil
}

// ResolveGenreNames fills in genre names on summaries that only carry ids.
func (c *CatalogController) ResolveGenreNames(ctx context.Context, items []models.MediaSummary) {
	table, err := c.Genres(ctx)
	if err != nil {
		c.logger.WithError(err).Debug("Genre table unavailable, leaving names unresolved")
		return
	}

	for i := range items {
		if len(items[i].Genres) > 0 {
			continue
		}
		for _, id := range items[i].GenreIDs {
			if name, ok := table[id]; ok {
				items[i].Genres = append(items[i].Genres, name)
			}
		}
	}
}
