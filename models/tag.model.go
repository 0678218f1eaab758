package models

import "gorm.io/gorm"

// Tag is a shared, deduplicated label. Names are stored trimmed and
// lower-cased.
type Tag struct {
	gorm.Model
	Name string `json:"name" gorm:"uniqueIndex;not null"`

	Feedbacks []Feedback `json:"feedbacks,omitempty" gorm:"many2many:feedback_tags;"`
}
