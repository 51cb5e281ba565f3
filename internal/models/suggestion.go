package models

import "time"

// Suggestion types produced by the matching routine.
const (
	SuggestionTypeLegMatch     = "leg_match"
	SuggestionTypeCrewMatch    = "crew_match"
	SuggestionTypeProfileField = "profile_field"
)

// Suggestion is a scored, non-binding recommendation for a user. Suggestions
// are only removed by explicit dismissal.
type Suggestion struct {
	ID             string    `json:"id" gorm:"primaryKey;column:id;type:varchar(255);default:gen_random_uuid()"`
	UserID         string    `json:"user_id" gorm:"column:user_id;type:varchar(255);not null;index"`
	SuggestionType string    `json:"suggestion_type" gorm:"column:suggestion_type;type:varchar(50);not null"`
	Title          string    `json:"title" gorm:"column:title;type:varchar(255);not null"`
	Description    string    `json:"description" gorm:"column:description;type:text"`
	Metadata       []byte    `json:"metadata" gorm:"column:metadata;type:jsonb"`
	Dismissed      bool      `json:"dismissed" gorm:"column:dismissed;type:boolean;default:false;index"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at;type:timestamptz;autoCreateTime"`
}

func (Suggestion) TableName() string { return "suggestions" }
