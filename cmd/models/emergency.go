package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type EmergencyProtocol struct {
	gorm.Model
	Title        string         `gorm:"column:title;size:255;not null" json:"title"`
	Category     string         `gorm:"column:category;size:50;not null" json:"category"`
	Severity     string         `gorm:"column:severity;size:20;not null;default:medium" json:"severity"`
	Steps        pq.StringArray `gorm:"column:steps;type:text[]" json:"steps"`
	ContactName  string         `gorm:"column:contact_name;size:255" json:"contact_name"`
	ContactPhone string         `gorm:"column:contact_phone;size:20" json:"contact_phone"`
	ContactEmail string         `gorm:"column:contact_email;size:255" json:"contact_email"`
	Active       bool           `gorm:"column:active;default:true" json:"active"`
}

func (EmergencyProtocol) TableName() string {
	return "emergency_protocols"
}

// ProtocolActivation records one real-world use of a protocol, for the
// incident log.
type ProtocolActivation struct {
	gorm.Model
	ProtocolID  uint      `gorm:"column:protocol_id;not null;index" json:"protocol_id"`
	ActivatedBy uint      `gorm:"column:activated_by" json:"activated_by"`
	Note        string    `gorm:"column:note;type:text" json:"note,omitempty"`
	ActivatedAt time.Time `gorm:"column:activated_at;not null" json:"activated_at"`

	Protocol *EmergencyProtocol `gorm:"foreignKey:ProtocolID" json:"protocol,omitempty"`
}
