package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/amaumene/cinesync/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrInvalidListType is returned for an unknown list type name
var ErrInvalidListType = errors.New("invalid list type")

// ShareController handles generated list-sharing links
type ShareController struct {
	db       *models.Database
	listCtrl *ListController
	logger   *logrus.Logger
}

// NewShareController creates a new share controller
func NewShareController(db *models.Database, listCtrl *ListController, logger *logrus.Logger) *ShareController {
	return &ShareController{
		db:       db,
		listCtrl: listCtrl,
		logger:   logger,
	}
}

// CreateLink generates a tokenized link to one of the user's lists
func (c *ShareController) CreateLink(userID string, listType models.ListType, includeNotes, includeRatings bool) (*models.ShareLink, error) {
	if !models.ValidListType(string(listType)) {
		return nil, ErrInvalidListType
	}

	link := &models.ShareLink{
		Token:          uuid.NewString(),
		UserID:         userID,
		ListType:       listType,
		IncludeNotes:   includeNotes,
		IncludeRatings: includeRatings,
	}
	if err := c.db.CreateShareLink(link); err != nil {
		return nil, fmt.Errorf("failed to create share link: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"user_id":   userID,
		"list_type": listType,
	}).Info("Share link created")
	return link, nil
}

// SharedList is a resolved share link: the owner and their list
type SharedList struct {
	Link  *models.ShareLink     `json:"link"`
	Owner *models.Profile       `json:"owner,omitempty"`
	Items []models.MediaSummary `json:"items"`
}

// ResolveLink resolves a share token to the owner's list snapshot
func (c *ShareController) ResolveLink(ctx context.Context, token string) (*SharedList, error) {
	link, err := c.db.GetShareLink(token)
	if err != nil {
		return nil, err
	}

	items, err := c.listCtrl.GetList(ctx, link.UserID, link.ListType, "", utils.SortLatest)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve shared list: %w", err)
	}

	shared := &SharedList{Link: link, Items: items}

	// The owner profile is cosmetic; a missing one does not break the link
	owner, err := c.db.GetProfile(link.UserID)
	if err == nil {
		shared.Owner = owner
	}

	return shared, nil
}
