package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sailsmart/sailsmart/internal/db"
	"github.com/sailsmart/sailsmart/internal/models"
)

type conversationRepository struct {
	db *db.DB
}

func NewConversationRepository(database *db.DB) ConversationRepository {
	return &conversationRepository{db: database}
}

func (r *conversationRepository) Create(ctx context.Context, c *models.Conversation) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *conversationRepository) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	var c models.Conversation
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *conversationRepository) AppendMessage(ctx context.Context, m *models.ConversationMessage) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// ListMessages returns the most recent messages in chronological order.
func (r *conversationRepository) ListMessages(ctx context.Context, conversationID string, limit int) ([]*models.ConversationMessage, error) {
	if limit <= 0 {
		limit = 20
	}
	var list []*models.ConversationMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return list, nil
}
