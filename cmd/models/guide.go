package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	GuideTypeStaff     = "staff"
	GuideTypeFreelance = "freelance"
)

type Guide struct {
	gorm.Model
	Name      string         `gorm:"column:name;size:255;not null" json:"name"`
	Email     string         `gorm:"column:email;size:255" json:"email"`
	Phone     string         `gorm:"column:phone;size:20" json:"phone"`
	Type      string         `gorm:"column:type;size:20;not null;default:staff" json:"type"`
	Languages pq.StringArray `gorm:"column:languages;type:text[]" json:"languages"`
	Museums   pq.StringArray `gorm:"column:museums;type:text[]" json:"museums"`
	Notes     string         `gorm:"column:notes;type:text" json:"notes,omitempty"`
	Active    bool           `gorm:"column:active;default:true" json:"active"`
}

func (Guide) TableName() string {
	return "guides"
}
