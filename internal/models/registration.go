package models

import "time"

// Registration statuses. Approve/reject transitions are only valid from
// pending.
const (
	RegistrationStatusPending   = "pending"
	RegistrationStatusApproved  = "approved"
	RegistrationStatusRejected  = "rejected"
	RegistrationStatusCancelled = "cancelled"
)

// Registration is a crew member's application for a leg.
type Registration struct {
	ID        string    `json:"id" gorm:"primaryKey;column:id;type:varchar(255);default:gen_random_uuid()"`
	LegID     string    `json:"leg_id" gorm:"column:leg_id;type:varchar(255);not null;index"`
	UserID    string    `json:"user_id" gorm:"column:user_id;type:varchar(255);not null;index"`
	Status    string    `json:"status" gorm:"column:status;type:varchar(20);not null;default:'pending';index"`
	Message   *string   `json:"message" gorm:"column:message;type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;type:timestamptz;autoUpdateTime"`
}

func (Registration) TableName() string { return "registrations" }

// ValidRegistrationTransition reports whether a status change is allowed.
func ValidRegistrationTransition(from, to string) bool {
	if from != RegistrationStatusPending {
		return false
	}
	return to == RegistrationStatusApproved || to == RegistrationStatusRejected
}
