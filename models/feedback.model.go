package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Feedback is a single feedback entry. ManagerID is the author (an employee
// for peer feedback), EmployeeID is the subject the entry is about.
type Feedback struct {
	gorm.Model
	ManagerID  uint `json:"manager_id" gorm:"not null;index"`
	EmployeeID uint `json:"employee_id" gorm:"not null;index"`
	Manager    User `json:"manager" gorm:"foreignKey:ManagerID"`
	Employee   User `json:"employee" gorm:"foreignKey:EmployeeID"`

	Strengths    string `json:"strengths" gorm:"type:text"`
	Improvements string `json:"improvements" gorm:"type:text"`
	Sentiment    string `json:"sentiment" gorm:"default:'neutral'"`

	Acknowledged   bool       `json:"acknowledged" gorm:"default:false"`
	AcknowledgedAt *time.Time `json:"acknowledged_at"`

	// Single comment slot, writable only by the subject
	Comment *string `json:"comment" gorm:"type:text"`

	Anonymous bool `json:"anonymous" gorm:"default:false"`
	// Only meaningful when Anonymous is true
	VisibleToManager bool `json:"visible_to_manager" gorm:"default:false"`

	Tags []Tag `json:"tags" gorm:"many2many:feedback_tags;"`
}
