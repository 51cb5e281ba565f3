package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/samber/lo"
)

// Journey is a multi-leg voyage owned by a boat. Skill/risk/experience values
// at this level are owner defaults that individual legs may override.
type Journey struct {
	ID                 string         `json:"id" gorm:"primaryKey;column:id;type:varchar(255);default:gen_random_uuid()"`
	BoatID             string         `json:"boat_id" gorm:"column:boat_id;type:varchar(255);not null;index"`
	OwnerID            string         `json:"owner_id" gorm:"column:owner_id;type:varchar(255);not null;index"`
	Title              string         `json:"title" gorm:"column:title;type:varchar(255);not null"`
	Description        *string        `json:"description" gorm:"column:description;type:text"`
	SkillsRequired     pq.StringArray `json:"skills_required" gorm:"column:skills_required;type:text[]"`
	RiskLevel          *string        `json:"risk_level" gorm:"column:risk_level;type:varchar(50)"`
	MinExperienceYears *int           `json:"min_experience_years" gorm:"column:min_experience_years;type:int"`
	StartDate          *time.Time     `json:"start_date" gorm:"column:start_date;type:timestamptz"`
	EndDate            *time.Time     `json:"end_date" gorm:"column:end_date;type:timestamptz"`
	Published          bool           `json:"published" gorm:"column:published;type:boolean;default:false;index"`
	CreatedAt          time.Time      `json:"created_at" gorm:"column:created_at;type:timestamptz;autoCreateTime"`
	UpdatedAt          time.Time      `json:"updated_at" gorm:"column:updated_at;type:timestamptz;autoUpdateTime"`
}

func (Journey) TableName() string { return "journeys" }

// Leg is a single scheduled segment of a journey with its own crew needs.
// Nil requirement fields inherit the journey default.
type Leg struct {
	ID                 string         `json:"id" gorm:"primaryKey;column:id;type:varchar(255);default:gen_random_uuid()"`
	JourneyID          string         `json:"journey_id" gorm:"column:journey_id;type:varchar(255);not null;index"`
	Name               string         `json:"name" gorm:"column:name;type:varchar(255);not null"`
	DeparturePort      string         `json:"departure_port" gorm:"column:departure_port;type:varchar(255)"`
	ArrivalPort        string         `json:"arrival_port" gorm:"column:arrival_port;type:varchar(255)"`
	StartDate          *time.Time     `json:"start_date" gorm:"column:start_date;type:timestamptz"`
	EndDate            *time.Time     `json:"end_date" gorm:"column:end_date;type:timestamptz"`
	SkillsRequired     pq.StringArray `json:"skills_required" gorm:"column:skills_required;type:text[]"`
	RiskLevel          *string        `json:"risk_level" gorm:"column:risk_level;type:varchar(50)"`
	MinExperienceYears *int           `json:"min_experience_years" gorm:"column:min_experience_years;type:int"`
	CrewNeeded         int            `json:"crew_needed" gorm:"column:crew_needed;type:int;default:0"`
	Published          bool           `json:"published" gorm:"column:published;type:boolean;default:false;index"`
	CreatedAt          time.Time      `json:"created_at" gorm:"column:created_at;type:timestamptz;autoCreateTime"`
	UpdatedAt          time.Time      `json:"updated_at" gorm:"column:updated_at;type:timestamptz;autoUpdateTime"`
}

func (Leg) TableName() string { return "legs" }

// Waypoint is one point of a leg's route, ordered by position. The first and
// last waypoints are used for geographic leg search.
type Waypoint struct {
	ID       string  `json:"id" gorm:"primaryKey;column:id;type:varchar(255);default:gen_random_uuid()"`
	LegID    string  `json:"leg_id" gorm:"column:leg_id;type:varchar(255);not null;index"`
	Position int     `json:"position" gorm:"column:position;type:int;not null"`
	Lng      float64 `json:"lng" gorm:"column:lng;type:decimal(9,6);not null"`
	Lat      float64 `json:"lat" gorm:"column:lat;type:decimal(9,6);not null"`
}

func (Waypoint) TableName() string { return "waypoints" }

// JourneyRequirement is an owner-defined qualification question. Legs of a
// journey with requirements cannot be registered for through the assistant.
type JourneyRequirement struct {
	ID        string    `json:"id" gorm:"primaryKey;column:id;type:varchar(255);default:gen_random_uuid()"`
	JourneyID string    `json:"journey_id" gorm:"column:journey_id;type:varchar(255);not null;index"`
	Question  string    `json:"question" gorm:"column:question;type:text;not null"`
	Required  bool      `json:"required" gorm:"column:required;type:boolean;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;type:timestamptz;autoCreateTime"`
}

func (JourneyRequirement) TableName() string { return "journey_requirements" }

// CombinedSkills merges journey-level and leg-level skill requirements,
// preserving first-seen order and dropping duplicates.
func CombinedSkills(journeySkills, legSkills []string) []string {
	merged := make([]string, 0, len(journeySkills)+len(legSkills))
	merged = append(merged, journeySkills...)
	merged = append(merged, legSkills...)
	return lo.Uniq(merged)
}

// EffectiveRiskLevel returns the leg override when present, otherwise the
// journey default.
func EffectiveRiskLevel(leg *Leg, journey *Journey) *string {
	if leg != nil && leg.RiskLevel != nil && *leg.RiskLevel != "" {
		return leg.RiskLevel
	}
	if journey != nil {
		return journey.RiskLevel
	}
	return nil
}

// EffectiveMinExperience returns the leg override when present, otherwise the
// journey default.
func EffectiveMinExperience(leg *Leg, journey *Journey) *int {
	if leg != nil && leg.MinExperienceYears != nil {
		return leg.MinExperienceYears
	}
	if journey != nil {
		return journey.MinExperienceYears
	}
	return nil
}
