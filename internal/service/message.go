package service

import (
	"errors"
	"time"

	"github.com/AlanVogel/ChatAppSample/internal/models"
	"github.com/AlanVogel/ChatAppSample/internal/repo"
	"gorm.io/gorm"
)

// MessageService posts messages into rooms and deletes a sender's own
// messages.
type MessageService struct {
	store *repo.Store
}

func NewMessageService(store *repo.Store) *MessageService {
	return &MessageService{store: store}
}

type MessageDTO struct {
	ID        uint      `json:"id"`
	RoomID    uint      `json:"room_id"`
	RoomName  string    `json:"room_name"`
	SenderID  uint      `json:"sender_id"`
	Body      string    `json:"msg"`
	CreatedAt time.Time `json:"created_at"`
}

// Send posts a message to a room the sender belongs to. A missing membership
// fails the same way whether or not the room exists, so the response does not
// distinguish the two.
func (s *MessageService) Send(userID, roomID uint, body string) (*MessageDTO, error) {
	var out *MessageDTO
	err := s.store.Atomic(func(r *repo.Store) error {
		if _, err := r.Membership(userID, roomID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotJoined
			}
			return err
		}
		room, err := r.ConversationByID(roomID)
		if err != nil {
			return err
		}
		msg := models.Message{Body: body, SenderID: userID}
		if err := r.CreateMessage(&msg); err != nil {
			return err
		}
		if err := r.AttachMessage(roomID, msg.ID); err != nil {
			return err
		}
		out = &MessageDTO{
			ID:        msg.ID,
			RoomID:    room.ID,
			RoomName:  room.Name,
			SenderID:  msg.SenderID,
			Body:      msg.Body,
			CreatedAt: msg.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a message, constrained to its sender. Someone else's message
// looks exactly like a missing one.
func (s *MessageService) Delete(userID, messageID uint) error {
	return s.store.Atomic(func(r *repo.Store) error {
		msg, err := r.MessageByID(messageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMessageNotFound
			}
			return err
		}
		if msg.SenderID != userID {
			return ErrMessageNotFound
		}
		return r.DeleteMessage(messageID)
	})
}
