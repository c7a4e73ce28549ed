package models

import (
	"gorm.io/gorm"
)

const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
	ReservationCompleted = "completed"
)

type Reservation struct {
	gorm.Model
	Reference   string `gorm:"column:reference;size:36;not null;uniqueIndex" json:"reference"`
	ClientName  string `gorm:"column:client_name;size:255;not null" json:"client_name"`
	ClientEmail string `gorm:"column:client_email;size:255" json:"client_email"`
	ClientPhone string `gorm:"column:client_phone;size:20" json:"client_phone"`

	TourServiceID uint  `gorm:"column:tour_service_id;not null" json:"tour_service_id"`
	GuideID       *uint `gorm:"column:guide_id" json:"guide_id,omitempty"`
	VehicleID     *uint `gorm:"column:vehicle_id" json:"vehicle_id,omitempty"`

	// Date is the ISO day (YYYY-MM-DD); TimeRange is the HH:MM-HH:MM window,
	// the same token format the agenda uses.
	Date      string `gorm:"column:date;size:10;not null;index" json:"date"`
	TimeRange string `gorm:"column:time_range;size:11;not null" json:"time_range"`

	PartySize int     `gorm:"column:party_size;not null;default:1" json:"party_size"`
	Price     float64 `gorm:"column:price" json:"price"`
	Status    string  `gorm:"column:status;size:20;not null;default:pending" json:"status"`
	Notes     string  `gorm:"column:notes;type:text" json:"notes,omitempty"`

	TourService *TourService `gorm:"foreignKey:TourServiceID" json:"tour_service,omitempty"`
	Guide       *Guide       `gorm:"foreignKey:GuideID" json:"guide,omitempty"`
	Vehicle     *Vehicle     `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
}

func (Reservation) TableName() string {
	return "reservations"
}
