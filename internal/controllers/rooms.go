package controllers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrPrivateRoom is returned when joining a private room without its code
var ErrPrivateRoom = errors.New("room is private, join with its code")

// ErrRoomNameRequired is returned when creating a room without a name
var ErrRoomNameRequired = errors.New("room name is required")

// RoomController handles watch rooms and their membership
type RoomController struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewRoomController creates a new room controller
func NewRoomController(db *models.Database, logger *logrus.Logger) *RoomController {
	return &RoomController{
		db:     db,
		logger: logger,
	}
}

// CreateRoom creates a room and enrolls the creator as its admin
func (c *RoomController) CreateRoom(name, description, creatorID string, isPrivate bool) (*models.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrRoomNameRequired
	}

	room := &models.Room{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatorID:   creatorID,
		JoinCode:    newJoinCode(),
		IsPrivate:   isPrivate,
	}

	if err := c.db.CreateRoom(room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	if err := c.db.AddRoomMember(&models.RoomMember{
		RoomID: room.ID,
		UserID: creatorID,
		Role:   models.RoleAdmin,
	}); err != nil {
		return nil, fmt.Errorf("failed to enroll room creator: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"room_id": room.ID,
		"name":    room.Name,
		"private": room.IsPrivate,
	}).Info("Room created")
	return room, nil
}

// JoinByCode joins a room through its join code; works for private rooms
func (c *RoomController) JoinByCode(code, userID string) (*models.Room, error) {
	room, err := c.db.GetRoomByJoinCode(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, fmt.Errorf("failed to find room by code: %w", err)
	}

	if err := c.db.AddRoomMember(&models.RoomMember{
		RoomID: room.ID,
		UserID: userID,
		Role:   models.RoleMember,
	}); err != nil {
		return nil, fmt.Errorf("failed to join room: %w", err)
	}
	return room, nil
}

// JoinByID joins a public room directly
func (c *RoomController) JoinByID(roomID, userID string) (*models.Room, error) {
	room, err := c.db.GetRoomByID(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	if room.IsPrivate {
		return nil, ErrPrivateRoom
	}

	if err := c.db.AddRoomMember(&models.RoomMember{
		RoomID: room.ID,
		UserID: userID,
		Role:   models.RoleMember,
	}); err != nil {
		return nil, fmt.Errorf("failed to join room: %w", err)
	}
	return room, nil
}

// LeaveRoom removes a user from a room
func (c *RoomController) LeaveRoom(roomID, userID string) error {
	if err := c.db.RemoveRoomMember(roomID, userID); err != nil {
		return fmt.Errorf("failed to leave room: %w", err)
	}
	return nil
}

// UserRooms lists the rooms a user belongs to
func (c *RoomController) UserRooms(userID string) ([]*models.Room, error) {
	return c.db.GetRoomsForUser(userID)
}

// RoomDetail retrieves a room and its members
func (c *RoomController) RoomDetail(roomID string) (*models.Room, []*models.RoomMember, error) {
	room, err := c.db.GetRoomByID(roomID)
	if err != nil {
		return nil, nil, err
	}
	members, err := c.db.GetRoomMembers(roomID)
	if err != nil {
		return nil, nil, err
	}
	return room, members, nil
}

// newJoinCode derives a 6 character room code
func newJoinCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:6])
}
