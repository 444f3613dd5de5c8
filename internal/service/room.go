package service

import (
	"errors"

	"github.com/AlanVogel/ChatAppSample/internal/models"
	"github.com/AlanVogel/ChatAppSample/internal/repo"
	"gorm.io/gorm"
)

// RoomService holds the membership state machine: create, join, leave, list
// and delete. A (user, room) pair is either a member or not; the join-table
// row is the whole state.
type RoomService struct {
	store *repo.Store
}

func NewRoomService(store *repo.Store) *RoomService {
	return &RoomService{store: store}
}

type RoomDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Create makes a room and auto-joins its creator in the same transaction. A
// room without the creator's membership is never observable.
func (s *RoomService) Create(userID uint, name string) (*RoomDTO, error) {
	var out *RoomDTO
	err := s.store.Atomic(func(r *repo.Store) error {
		if _, err := r.UserByID(userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if _, err := r.ConversationByName(name); err == nil {
			return ErrRoomExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		room := models.Conversation{Name: name}
		if err := r.CreateConversation(&room); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrRoomExists
			}
			return err
		}
		if err := r.CreateMembership(userID, room.ID); err != nil {
			return err
		}
		out = &RoomDTO{ID: room.ID, Name: room.Name}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Join moves (user, room) from NotMember to Member.
func (s *RoomService) Join(userID, roomID uint) (*RoomDTO, error) {
	var out *RoomDTO
	err := s.store.Atomic(func(r *repo.Store) error {
		room, err := r.ConversationByID(roomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		if _, err := r.Membership(userID, roomID); err == nil {
			return ErrAlreadyJoined
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := r.CreateMembership(userID, roomID); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyJoined
			}
			return err
		}
		out = &RoomDTO{ID: room.ID, Name: room.Name}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Leave moves (user, room) back to NotMember.
func (s *RoomService) Leave(userID, roomID uint) (*RoomDTO, error) {
	var out *RoomDTO
	err := s.store.Atomic(func(r *repo.Store) error {
		room, err := r.ConversationByID(roomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		if _, err := r.Membership(userID, roomID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotJoined
			}
			return err
		}
		if err := r.DeleteMembership(userID, roomID); err != nil {
			return err
		}
		out = &RoomDTO{ID: room.ID, Name: room.Name}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List returns the rooms the user belongs to. No memberships is an empty
// list, not an error.
func (s *RoomService) List(userID uint) ([]RoomDTO, error) {
	var out []RoomDTO
	err := s.store.Atomic(func(r *repo.Store) error {
		convs, err := r.MembershipsOfUser(userID)
		if err != nil {
			return err
		}
		out = make([]RoomDTO, 0, len(convs))
		for _, c := range convs {
			out = append(out, RoomDTO{ID: c.ID, Name: c.Name})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a room the requester belongs to, cascading its memberships
// and message attachments.
func (s *RoomService) Delete(userID, roomID uint) error {
	return s.store.Atomic(func(r *repo.Store) error {
		if _, err := r.Membership(userID, roomID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		return r.DeleteConversation(roomID)
	})
}
