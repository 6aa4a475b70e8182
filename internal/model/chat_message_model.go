package model

import "time"

// ChatMessage rows are append-only. Content holds the AES-GCM ciphertext of
// the message body, encrypted under the owning user's key.
type ChatMessage struct {
	Id        uint   `gorm:"primaryKey;autoIncrement"`
	Username  string `gorm:"type:varchar(255);not null;index"`
	Direction string `gorm:"type:varchar(20);not null"`
	Content   []byte `gorm:"type:blob;not null"`
	CreatedAt time.Time
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
