package models

import (
	"gorm.io/gorm"
)

const (
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

type User struct {
	gorm.Model
	Name     string `json:"name" gorm:"default:''"`
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`
	Role     string `json:"role" gorm:"default:'employee';index"`
	Disabled bool   `json:"disabled" gorm:"default:false"`
}

// IsManager reports whether the user holds the manager role.
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}
