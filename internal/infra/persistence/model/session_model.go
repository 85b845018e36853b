package model

import "time"

// SessionModel is the GORM-specific struct for the 'sessions' table.
type SessionModel struct {
	ID           string    `gorm:"type:varchar(64);primary_key"`
	Email        string    `gorm:"type:varchar(255);not null"`
	StoreName    string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"not null"`
	LastActiveAt time.Time `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (SessionModel) TableName() string {
	return "sessions"
}
