package models

import (
	"time"

	"github.com/lib/pq"
)

// Profile is the marketplace profile of a user. Identifier fields (username,
// full name, email, phone) are never exposed to or writable by the assistant.
type Profile struct {
	ID       string `json:"id" gorm:"primaryKey;column:id;type:varchar(255);default:gen_random_uuid()"`
	UserID   string `json:"user_id" gorm:"column:user_id;type:varchar(255);not null;uniqueIndex"`
	Username string `json:"username" gorm:"column:username;type:varchar(100);not null"`
	FullName string `json:"full_name" gorm:"column:full_name;type:varchar(255)"`
	Email    string `json:"email" gorm:"column:email;type:varchar(255)"`
	Phone    string `json:"phone" gorm:"column:phone;type:varchar(50)"`

	UserDescription    *string        `json:"user_description" gorm:"column:user_description;type:text"`
	Certifications     pq.StringArray `json:"certifications" gorm:"column:certifications;type:text[]"`
	Skills             pq.StringArray `json:"skills" gorm:"column:skills;type:text[]"`
	RiskLevel          *string        `json:"risk_level" gorm:"column:risk_level;type:varchar(50)"`
	SailingPreferences pq.StringArray `json:"sailing_preferences" gorm:"column:sailing_preferences;type:text[]"`
	ExperienceYears    int            `json:"experience_years" gorm:"column:experience_years;type:int;default:0"`

	Roles pq.StringArray `json:"roles" gorm:"column:roles;type:text[]"` // owner, crew

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;type:timestamptz;autoUpdateTime"`
}

func (Profile) TableName() string { return "profiles" }

// AIWritableProfileFields is the closed set of profile columns the assistant
// may propose changes to. Identifier columns are permanently excluded.
var AIWritableProfileFields = map[string]struct{}{
	"user_description":    {},
	"certifications":      {},
	"skills":              {},
	"risk_level":          {},
	"sailing_preferences": {},
}

// HasRole reports whether the profile carries the given role.
func (p *Profile) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Completeness returns a 0..1 signal of how filled-in the profile is, used by
// the profile-improvement use case.
func (p *Profile) Completeness() float64 {
	total, filled := 5, 0
	if p.UserDescription != nil && *p.UserDescription != "" {
		filled++
	}
	if len(p.Certifications) > 0 {
		filled++
	}
	if len(p.Skills) > 0 {
		filled++
	}
	if p.RiskLevel != nil && *p.RiskLevel != "" {
		filled++
	}
	if len(p.SailingPreferences) > 0 {
		filled++
	}
	return float64(filled) / float64(total)
}
