package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification is a system-created message for one user. Rows are append-only;
// only the read flag ever changes.
type Notification struct {
	gorm.Model
	UserID  uint           `json:"user_id" gorm:"not null;index"`
	Message string         `json:"message" gorm:"type:text;not null"`
	Link    string         `json:"link" gorm:"default:''"`
	Meta    datatypes.JSON `json:"meta,omitempty"`
	Read    bool           `json:"read" gorm:"default:false;index"`
}
