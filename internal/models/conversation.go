package models

import "time"

// Conversation groups the chat turns of one assistant session.
type Conversation struct {
	ID        string    `json:"id" gorm:"primaryKey;column:id;type:varchar(255);default:gen_random_uuid()"`
	UserID    string    `json:"user_id" gorm:"column:user_id;type:varchar(255);not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;type:timestamptz;autoUpdateTime"`
}

func (Conversation) TableName() string { return "conversations" }

// ConversationMessage is one stored chat turn. Role is user or assistant.
type ConversationMessage struct {
	ID             string    `json:"id" gorm:"primaryKey;column:id;type:varchar(255);default:gen_random_uuid()"`
	ConversationID string    `json:"conversation_id" gorm:"column:conversation_id;type:varchar(255);not null;index"`
	Role           string    `json:"role" gorm:"column:role;type:varchar(20);not null"`
	Content        string    `json:"content" gorm:"column:content;type:text;not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at;type:timestamptz;autoCreateTime"`
}

func (ConversationMessage) TableName() string { return "conversation_messages" }
