package models

import (
	"time"
)

// Notification delivery states
const (
	NotificationQueued = "queued"
	NotificationSent   = "sent"
	NotificationFailed = "failed"
)

// Notification journals every email handed to the notification queue
type Notification struct {
	JobID        string `gorm:"primaryKey;size:36"`
	Kind         string `gorm:"size:40;not null;index"`
	Recipient    string `gorm:"size:254;not null"`
	Title        string `gorm:"size:255;not null"`
	Message      string `gorm:"type:text"`
	Status       string `gorm:"size:10;not null;index"`
	Attempts     int    `gorm:"not null;default:0"`
	LastError    string `gorm:"size:1024"`
	DeliverAfter time.Time
	Payload      JSON
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
