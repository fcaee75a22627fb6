package models

import (
	"time"

	"gorm.io/gorm"
)

// Staff roles. "pending" accounts exist only while a registration request
// awaits owner approval.
const (
	RoleOwner    = "owner"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Username string `gorm:"uniqueIndex;size:100" json:"username"`
	Password string `gorm:"size:255" json:"-"`
	Name     string `gorm:"size:150" json:"name"`
	Email    string `gorm:"size:150" json:"email,omitempty"`
	Role     string `gorm:"size:32" json:"role"`
	Photo    string `gorm:"size:255" json:"photo,omitempty"`
}

// DisplayName prefers the full name and falls back to the username.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// RegistrationRequest holds a self-registration until an owner approves it.
// The password is stored already hashed.
type RegistrationRequest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Username string `gorm:"size:100;index" json:"username"`
	Name     string `gorm:"size:150" json:"name"`
	Email    string `gorm:"size:150" json:"email"`
	Password string `gorm:"size:255" json:"-"`
	Status   string `gorm:"size:32;default:pending" json:"status"`
}
