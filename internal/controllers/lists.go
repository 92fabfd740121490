package controllers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/amaumene/cinesync/internal/services/tmdb"
	"github.com/amaumene/cinesync/internal/utils"
	"github.com/sirupsen/logrus"
)

// maxDetailFetches bounds the concurrent TMDB detail lookups when
// resolving a list, so a large list cannot stampede the API.
const maxDetailFetches = 8

// ListController handles a user's to-watch / watched / favorite lists
type ListController struct {
	db         *models.Database
	tmdbClient *tmdb.Client
	logger     *logrus.Logger
}

// NewListController creates a new list controller
func NewListController(db *models.Database, tmdbClient *tmdb.Client, logger *logrus.Logger) *ListController {
	return &ListController{
		db:         db,
		tmdbClient: tmdbClient,
		logger:     logger,
	}
}

// AddToList records a media item on one of the user's lists. A duplicate
// insert is rejected by the store and treated as a no-op here.
func (c *ListController) AddToList(userID string, mediaID int, mediaType models.MediaType, listType models.ListType) error {
	err := c.db.AddMembership(&models.ListMembership{
		UserID:    userID,
		MediaID:   mediaID,
		MediaType: mediaType,
		ListType:  listType,
	})
	if errors.Is(err, models.ErrDuplicateMembership) {
		c.logger.WithFields(logrus.Fields{
			"user_id":    userID,
			"media_id":   mediaID,
			"media_type": mediaType,
			"list_type":  listType,
		}).Debug("Membership already exists, ignoring")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to add membership: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"user_id":   userID,
		"media_id":  mediaID,
		"list_type": listType,
	}).Info("Added media to list")
	return nil
}

// RemoveFromList removes a media item from one of the user's lists
func (c *ListController) RemoveFromList(userID string, mediaID int, mediaType models.MediaType, listType models.ListType) error {
	if err := c.db.RemoveMembership(userID, mediaID, mediaType, listType); err != nil {
		return fmt.Errorf("failed to remove membership: %w", err)
	}
	return nil
}

// GetList resolves one of the user's lists to displayable summaries,
// filtered and ordered. Detail lookups fan out concurrently; titles whose
// lookup fails are dropped from the view rather than failing the list.
func (c *ListController) GetList(ctx context.Context, userID string, listType models.ListType, searchText string, sortKey utils.SortKey) ([]models.MediaSummary, error) {
	memberships, err := c.db.GetMembershipsByUserAndList(userID, listType)
	if err != nil {
		return nil, fmt.Errorf("failed to read memberships: %w", err)
	}

	summaries := c.resolveDetails(ctx, memberships)
	return utils.FilterMedia(summaries, searchText, sortKey), nil
}

func (c *ListController) resolveDetails(ctx context.Context, memberships []*models.ListMembership) []models.MediaSummary {
	results := make([]*models.MediaSummary, len(memberships))

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxDetailFetches)
	for i, membership := range memberships {
		wg.Add(1)
		go func(i int, m *models.ListMembership) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			summary, err := c.fetchSummary(ctx, m.Key())
			if err != nil {
				c.logger.WithError(err).WithFields(logrus.Fields{
					"media_id":   m.MediaID,
					"media_type": m.MediaType,
				}).Warn("Failed to fetch details, dropping from view")
				return
			}
			results[i] = summary
		}(i, membership)
	}
	wg.Wait()

	summaries := make([]models.MediaSummary, 0, len(results))
	for _, s := range results {
		if s != nil {
			summaries = append(summaries, *s)
		}
	}
	return summaries
}

func (c *ListController) fetchSummary(ctx context.Context, key models.MediaKey) (*models.MediaSummary, error) {
	switch key.Type {
	case models.MediaTypeTV:
		details, err := c.tmdbClient.TVShowDetails(ctx, key.ID)
		if err != nil {
			return nil, err
		}
		summary := details.TVShow.Summary()
		summary.GenreIDs = tmdb.GenreIDList(details.Genres)
		for _, g := range details.Genres {
			summary.Genres = append(summary.Genres, g.Name)
		}
		return &summary, nil
	default:
		details, err := c.tmdbClient.MovieDetails(ctx, key.ID)
		if err != nil {
			return nil, err
		}
		summary := details.Movie.Summary()
		summary.GenreIDs = tmdb.GenreIDList(details.Genres)
		for _, g := range details.Genres {
			summary.Genres = append(summary.Genres, g.Name)
		}
		return &summary, nil
	}
}
