package models

import "time"

// Boat is a vessel registered by an owner.
type Boat struct {
	ID           string    `json:"id" gorm:"primaryKey;column:id;type:varchar(255);default:gen_random_uuid()"`
	OwnerID      string    `json:"owner_id" gorm:"column:owner_id;type:varchar(255);not null;index"`
	Name         string    `json:"name" gorm:"column:name;type:varchar(255);not null"`
	BoatType     string    `json:"boat_type" gorm:"column:boat_type;type:varchar(100)"`
	LengthMeters float64   `json:"length_meters" gorm:"column:length_meters;type:decimal(6,2)"`
	Capacity     int       `json:"capacity" gorm:"column:capacity;type:int"`
	HomePort     string    `json:"home_port" gorm:"column:home_port;type:varchar(255)"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;type:timestamptz;autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at;type:timestamptz;autoUpdateTime"`
}

func (Boat) TableName() string { return "boats" }
