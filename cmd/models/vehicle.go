package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	VehicleStatusActive      = "active"
	VehicleStatusMaintenance = "maintenance"
	VehicleStatusRetired     = "retired"
)

type Vehicle struct {
	gorm.Model
	Plate           string    `gorm:"column:plate;size:20;not null;uniqueIndex" json:"plate"`
	Make            string    `gorm:"column:make;size:100" json:"make"`
	VehicleModel    string    `gorm:"column:vehicle_model;size:100" json:"model"`
	Seats           int       `gorm:"column:seats;not null" json:"seats"`
	Status          string    `gorm:"column:status;size:20;not null;default:active" json:"status"`
	InsuranceExpiry time.Time `gorm:"column:insurance_expiry" json:"insurance_expiry"`
	Notes           string    `gorm:"column:notes;type:text" json:"notes,omitempty"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}
