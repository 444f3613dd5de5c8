package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Nickname     string    `gorm:"size:32;not null"`
	Email        string    `gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string    `gorm:"not null"`
	KeyWord      string    `gorm:"size:64"` // empty until first login or lazy provisioning
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Conversation struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:64;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Message struct {
	ID        uint      `gorm:"primaryKey"`
	Body      string    `gorm:"type:text;not null"`
	SenderID  uint      `gorm:"index;not null"`
	Sender    User      `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// ConversationMember is a join row: its existence is the "joined" state for
// one (user, conversation) pair.
type ConversationMember struct {
	ID             uint         `gorm:"primaryKey"`
	UserID         uint         `gorm:"not null;index:idx_member_pair,unique"`
	ConversationID uint         `gorm:"not null;index:idx_member_pair,unique"`
	User           User         `gorm:"constraint:OnDelete:CASCADE"`
	Conversation   Conversation `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time
}

// ConversationMessage attaches a message to a conversation timeline.
type ConversationMessage struct {
	ID             uint         `gorm:"primaryKey"`
	ConversationID uint         `gorm:"not null;index"`
	MessageID      uint         `gorm:"not null;index"`
	Conversation   Conversation `gorm:"constraint:OnDelete:CASCADE"`
	Message        Message      `gorm:"constraint:OnDelete:CASCADE"`
}
