package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// TourService is a bookable catalog entry: a city walk, a museum visit,
// a day trip and so on.
type TourService struct {
	gorm.Model
	Name            string         `gorm:"column:name;size:255;not null" json:"name"`
	Description     string         `gorm:"column:description;type:text" json:"description"`
	Category        string         `gorm:"column:category;size:50" json:"category"`
	DurationMinutes int            `gorm:"column:duration_minutes;not null" json:"duration_minutes"`
	BasePrice       float64        `gorm:"column:base_price;not null" json:"base_price"`
	Museums         pq.StringArray `gorm:"column:museums;type:text[]" json:"museums"`
	Active          bool           `gorm:"column:active;default:true" json:"active"`
}

func (TourService) TableName() string {
	return "tour_services"
}
