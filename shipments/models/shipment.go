package models

import "time"

type Shipment struct {
	ID                    uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	InternalReferenceName string     `gorm:"size:50;not null" json:"internal_reference_name"`
	UserID                string     `gorm:"size:50;not null" json:"user_id"`
	UpdatedAt             *time.Time `json:"updated_at"`
	EstimatedStartedAt    *Timestamp `json:"estimated_started_at"`
	ActualStartedAt       *Timestamp `json:"actual_started_at"`
	EstimatedCompletionAt *Timestamp `json:"estimated_completion_at"`
	ActualCompletionAt    *Timestamp `json:"actual_completion_at"`

	// Foreign keys
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"-"`
}

func (Shipment) TableName() string {
	return "shipments"
}

// ShipmentSummary is the reduced column set visible to warehouse staff.
type ShipmentSummary struct {
	ID                    uint       `json:"id"`
	InternalReferenceName string     `json:"internal_reference_name"`
	UserID                string     `json:"user_id"`
	UpdatedAt             *time.Time `json:"updated_at"`
}

func (ShipmentSummary) TableName() string {
	return "shipments"
}
