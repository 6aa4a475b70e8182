package model

import "time"

type Session struct {
	TokenID   string    `gorm:"primaryKey;type:varchar(64)"`
	Username  string    `gorm:"type:varchar(255);not null;index"`
	Role      string    `gorm:"type:varchar(50);not null"`
	CreatedAt time.Time `gorm:"index"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

func (Session) TableName() string {
	return "sessions"
}
