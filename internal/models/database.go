package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// ErrDuplicateMembership is returned when a (user, media, list) triple
// already exists. Callers treat it as a non-fatal no-op.
var ErrDuplicateMembership = errors.New("membership already exists")

// ErrNotFound is the store's not-found sentinel.
var ErrNotFound = bolthold.ErrNotFound

// Database wraps the bolthold store holding the account-side records:
// profiles, list memberships, rooms, room members and share links.
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// List membership operations

// AddMembership inserts a membership, rejecting duplicates of the
// (user, media id, media type, list type) triple.
func (db *Database) AddMembership(m *ListMembership) error {
	existing, err := db.findMembership(m.UserID, m.MediaID, m.MediaType, m.ListType)
	if err != nil && !errors.Is(err, bolthold.ErrNotFound) {
		return err
	}
	if existing != nil {
		return ErrDuplicateMembership
	}

	m.AddedAt = time.Now()
	return db.store.Insert(bolthold.NextSequence(), m)
}

// RemoveMembership deletes a membership by its identifying triple
func (db *Database) RemoveMembership(userID string, mediaID int, mediaType MediaType, listType ListType) error {
	existing, err := db.findMembership(userID, mediaID, mediaType, listType)
	if err != nil {
		return err
	}
	return db.store.Delete(existing.ID, &ListMembership{})
}

// GetMembershipsByUser retrieves all memberships for a user
func (db *Database) GetMembershipsByUser(userID string) ([]*ListMembership, error) {
	var items []*ListMembership
	err := db.store.Find(&items, bolthold.Where("UserID").Eq(userID).Index("UserID"))
	return items, err
}

// GetMembershipsByUserAndList retrieves one of a user's lists
func (db *Database) GetMembershipsByUserAndList(userID string, listType ListType) ([]*ListMembership, error) {
	var items []*ListMembership
	err := db.store.Find(&items,
		bolthold.Where("UserID").Eq(userID).Index("UserID").
			And("ListType").Eq(listType))
	return items, err
}

func (db *Database) findMembership(userID string, mediaID int, mediaType MediaType, listType ListType) (*ListMembership, error) {
	var m ListMembership
	err := db.store.FindOne(&m,
		bolthold.Where("UserID").Eq(userID).Index("UserID").
			And("MediaID").Eq(mediaID).
			And("MediaType").Eq(mediaType).
			And("ListType").Eq(listType))
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Profile operations

// UpsertProfile creates or replaces a profile
func (db *Database) UpsertProfile(p *Profile) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return db.store.Upsert(p.ID, p)
}

// GetProfile retrieves a profile by user id
func (db *Database) GetProfile(userID string) (*Profile, error) {
	var p Profile
	if err := db.store.Get(userID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Room operations

// CreateRoom creates a new room record
func (db *Database) CreateRoom(room *Room) error {
	room.CreatedAt = time.Now()
	return db.store.Insert(room.ID, room)
}

// GetRoomByID retrieves a room by id
func (db *Database) GetRoomByID(id string) (*Room, error) {
	var room Room
	if err := db.store.Get(id, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// GetRoomByJoinCode retrieves a room by its join code
func (db *Database) GetRoomByJoinCode(code string) (*Room, error) {
	var room Room
	err := db.store.FindOne(&room, bolthold.Where("JoinCode").Eq(code).Index("JoinCode"))
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// AddRoomMember adds a user to a room. Adding an existing member is a no-op.
func (db *Database) AddRoomMember(member *RoomMember) error {
	var existing RoomMember
	err := db.store.FindOne(&existing,
		bolthold.Where("RoomID").Eq(member.RoomID).Index("RoomID").
			And("UserID").Eq(member.UserID))
	if err == nil {
		return nil
	}
	if !errors.Is(err, bolthold.ErrNotFound) {
		return err
	}

	member.JoinedAt = time.Now()
	return db.store.Insert(bolthold.NextSequence(), member)
}

// RemoveRoomMember removes a user from a room
func (db *Database) RemoveRoomMember(roomID, userID string) error {
	var existing RoomMember
	err := db.store.FindOne(&existing,
		bolthold.Where("RoomID").Eq(roomID).Index("RoomID").
			And("UserID").Eq(userID))
	if err != nil {
		return err
	}
	return db.store.Delete(existing.ID, &RoomMember{})
}

// GetRoomMembers retrieves all members of a room
func (db *Database) GetRoomMembers(roomID string) ([]*RoomMember, error) {
	var members []*RoomMember
	err := db.store.Find(&members, bolthold.Where("RoomID").Eq(roomID).Index("RoomID"))
	return members, err
}

// GetRoomsForUser retrieves all rooms a user belongs to
func (db *Database) GetRoomsForUser(userID string) ([]*Room, error) {
	var memberships []*RoomMember
	err := db.store.Find(&memberships, bolthold.Where("UserID").Eq(userID).Index("UserID"))
	if err != nil {
		return nil, err
	}

	rooms := make([]*Room, 0, len(memberships))
	for _, m := range memberships {
		room, err := db.GetRoomByID(m.RoomID)
		if err != nil {
			if errors.Is(err, bolthold.ErrNotFound) {
				continue
			}
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// Share link operations

// CreateShareLink stores a generated share link
func (db *Database) CreateShareLink(link *ShareLink) error {
	link.CreatedAt = time.Now()
	return db.store.Insert(link.Token, link)
}

// GetShareLink resolves a share link token
func (db *Database) GetShareLink(token string) (*ShareLink, error) {
	var link ShareLink
	if err := db.store.Get(token, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// GetAllMemberships retrieves every membership record (status reporting)
func (db *Database) GetAllMemberships() ([]*ListMembership, error) {
	var items []*ListMembership
	err := db.store.Find(&items, nil)
	return items, err
}

// GetAllRooms retrieves every room record (status reporting)
func (db *Database) GetAllRooms() ([]*Room, error) {
	var rooms []*Room
	err := db.store.Find(&rooms, nil)
	return rooms, err
}
