package models

import "time"

// Pending-action statuses. pending is the only non-terminal state; resolved
// rows are immutable.
const (
	ActionStatusPending  = "pending"
	ActionStatusApproved = "approved"
	ActionStatusRejected = "rejected"
	ActionStatusExpired  = "expired"
)

// PendingAction is a proposed, unapplied mutation awaiting explicit user
// approval. Created by the tool executor when the model invokes an action
// tool; the underlying data is never touched at creation time.
type PendingAction struct {
	ID             string     `json:"id" gorm:"primaryKey;column:id;type:varchar(255);default:gen_random_uuid()"`
	UserID         string     `json:"user_id" gorm:"column:user_id;type:varchar(255);not null;index"`
	ConversationID *string    `json:"conversation_id" gorm:"column:conversation_id;type:varchar(255);index"`
	ActionType     string     `json:"action_type" gorm:"column:action_type;type:varchar(50);not null"`
	Payload        []byte     `json:"payload" gorm:"column:payload;type:jsonb"`
	Explanation    string     `json:"explanation" gorm:"column:explanation;type:text;not null"`
	Status         string     `json:"status" gorm:"column:status;type:varchar(20);not null;default:'pending';index"`
	CreatedAt      time.Time  `json:"created_at" gorm:"column:created_at;type:timestamptz;autoCreateTime"`
	ResolvedAt     *time.Time `json:"resolved_at" gorm:"column:resolved_at;type:timestamptz"`
}

func (PendingAction) TableName() string { return "pending_actions" }

// Terminal reports whether the action has reached an immutable state.
func (a *PendingAction) Terminal() bool {
	return a.Status != ActionStatusPending
}
