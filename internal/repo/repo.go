package repo

import (
	"github.com/AlanVogel/ChatAppSample/internal/models"
	"gorm.io/gorm"
)

// Store is the repository over the five chat entities. A Store obtained
// through Atomic operates on a single transaction; every use case does all of
// its reads and writes through one such Store.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Atomic runs fn against a transactional Store. The transaction commits when
// fn returns nil and rolls back otherwise, on every exit path.
func (s *Store) Atomic(fn func(*Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Users

func (s *Store) CreateUser(u *models.User) error {
	return s.db.Create(u).Error
}

func (s *Store) UserByID(id uint) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UserByEmail(email string) (*models.User, error) {
	var u models.User
	if err := s.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateKeyWord atomically replaces the user's rotating secret. Tokens signed
// with the previous key word stop verifying from this point on.
func (s *Store) UpdateKeyWord(userID uint, keyWord string) error {
	return s.db.Model(&models.User{}).Where("id = ?", userID).Update("key_word", keyWord).Error
}

// Conversations

func (s *Store) CreateConversation(c *models.Conversation) error {
	return s.db.Create(c).Error
}

func (s *Store) ConversationByID(id uint) (*models.Conversation, error) {
	var c models.Conversation
	if err := s.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ConversationByName(name string) (*models.Conversation, error) {
	var c models.Conversation
	if err := s.db.Where("name = ?", name).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteConversation removes a conversation together with its membership rows
// and message attachments. All three deletes share the caller's transaction,
// so a partially cascaded room is never observable.
func (s *Store) DeleteConversation(id uint) error {
	if err := s.db.Where("conversation_id = ?", id).Delete(&models.ConversationMember{}).Error; err != nil {
		return err
	}
	if err := s.db.Where("conversation_id = ?", id).Delete(&models.ConversationMessage{}).Error; err != nil {
		return err
	}
	return s.db.Delete(&models.Conversation{}, id).Error
}

// Messages

func (s *Store) CreateMessage(m *models.Message) error {
	return s.db.Create(m).Error
}

func (s *Store) MessageByID(id uint) (*models.Message, error) {
	var m models.Message
	if err := s.db.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteMessage removes a message and its conversation attachments in the
// caller's transaction.
func (s *Store) DeleteMessage(id uint) error {
	if err := s.db.Where("message_id = ?", id).Delete(&models.ConversationMessage{}).Error; err != nil {
		return err
	}
	return s.db.Delete(&models.Message{}, id).Error
}

// AttachMessage puts a message on a conversation's timeline.
func (s *Store) AttachMessage(conversationID, messageID uint) error {
	return s.db.Create(&models.ConversationMessage{ConversationID: conversationID, MessageID: messageID}).Error
}

// Memberships

func (s *Store) CreateMembership(userID, conversationID uint) error {
	return s.db.Create(&models.ConversationMember{UserID: userID, ConversationID: conversationID}).Error
}

func (s *Store) Membership(userID, conversationID uint) (*models.ConversationMember, error) {
	var m models.ConversationMember
	err := s.db.Where("user_id = ? AND conversation_id = ?", userID, conversationID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) DeleteMembership(userID, conversationID uint) error {
	return s.db.Where("user_id = ? AND conversation_id = ?", userID, conversationID).
		Delete(&models.ConversationMember{}).Error
}

// MembershipsOfUser returns the conversations the user currently belongs to.
func (s *Store) MembershipsOfUser(userID uint) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := s.db.Model(&models.Conversation{}).
		Joins("JOIN conversation_members ON conversation_members.conversation_id = conversations.id").
		Where("conversation_members.user_id = ?", userID).
		Order("conversations.id").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}

// OrphanRows counts rows in either join table that still reference the given
// conversation.
func (s *Store) OrphanRows(conversationID uint) (int64, error) {
	var members, attachments int64
	if err := s.db.Model(&models.ConversationMember{}).Where("conversation_id = ?", conversationID).Count(&members).Error; err != nil {
		return 0, err
	}
	if err := s.db.Model(&models.ConversationMessage{}).Where("conversation_id = ?", conversationID).Count(&attachments).Error; err != nil {
		return 0, err
	}
	return members + attachments, nil
}
