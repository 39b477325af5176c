package models

import (
	"time"
)

// UserType distinguishes buyers from shop owners
type UserType string

const (
	UserTypeBuyer UserType = "buyer"
	UserTypeShop  UserType = "shop"
)

// User is a marketplace account; inactive until its email is confirmed
type User struct {
	ID           uint64   `gorm:"primaryKey;autoIncrement"`
	Email        string   `gorm:"size:254;not null;uniqueIndex"`
	PasswordHash string   `gorm:"size:255;not null"`
	FirstName    string   `gorm:"size:150"`
	LastName     string   `gorm:"size:150"`
	Company      string   `gorm:"size:40"`
	Position     string   `gorm:"size:40"`
	Type         UserType `gorm:"size:5;not null;default:buyer"`
	IsActive     bool     `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Contacts     []Contact `gorm:"constraint:OnDelete:CASCADE"`
}

// ConfirmEmailToken is the single-use key mailed at registration
type ConfirmEmailToken struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"not null;index"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	Key       string `gorm:"size:64;not null;uniqueIndex"`
	CreatedAt time.Time
}

// AuthToken is the persistent API token, one per user
type AuthToken struct {
	Key       string `gorm:"primaryKey;size:40"`
	UserID    uint64 `gorm:"not null;uniqueIndex"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// PasswordResetToken is mailed on a reset request and consumed on confirmation
type PasswordResetToken struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"not null;index"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	Key       string `gorm:"size:64;not null;uniqueIndex"`
	CreatedAt time.Time
}

// Contact is a delivery address owned by a user
type Contact struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"not null;index"`
	City      string `gorm:"size:50;not null"`
	Street    string `gorm:"size:100;not null"`
	House     string `gorm:"size:15"`
	Structure string `gorm:"size:15"`
	Building  string `gorm:"size:15"`
	Apartment string `gorm:"size:15"`
	Phone     string `gorm:"size:20;not null"`
}
