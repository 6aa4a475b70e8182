package model

import "time"

type User struct {
	Username           string `gorm:"primaryKey;type:varchar(255)"`
	PasswordHash       string `gorm:"type:varchar(255);not null"`
	Role               string `gorm:"type:varchar(50);not null;default:'user'"`
	WrappedUserKey     []byte `gorm:"type:blob;not null"`
	EncryptedFullName  []byte `gorm:"type:blob"`
	MustChangePassword bool   `gorm:"default:false"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (User) TableName() string {
	return "users"
}
