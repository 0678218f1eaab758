package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RequestPending   = "pending"
	RequestCompleted = "completed"
)

// FeedbackRequest is an employee-initiated ask for feedback from a named
// manager. Completed is terminal.
type FeedbackRequest struct {
	gorm.Model
	EmployeeID uint `json:"employee_id" gorm:"not null;index"`
	ManagerID  uint `json:"manager_id" gorm:"not null;index"`
	Employee   User `json:"employee" gorm:"foreignKey:EmployeeID"`
	Manager    User `json:"manager" gorm:"foreignKey:ManagerID"`

	Status      string     `json:"status" gorm:"default:'pending';index"`
	CompletedAt *time.Time `json:"completed_at"`
}
