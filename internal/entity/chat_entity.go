package entity

import "time"

type MessageDirection string

const (
	DirectionSent     MessageDirection = "sent"
	DirectionReceived MessageDirection = "received"
)

// ChatMessage is one transcript row. Content here is plaintext; the
// repository layer only ever sees the encrypted form.
type ChatMessage struct {
	Id        uint
	Username  string
	Direction MessageDirection
	Content   string
	CreatedAt time.Time
}

// StoredChatMessage is the at-rest form of a transcript row, with the body
// still sealed under the owning user's key.
type StoredChatMessage struct {
	Id         uint
	Username   string
	Direction  MessageDirection
	Ciphertext []byte
	CreatedAt  time.Time
}

// MessagePair is one (sent, received) exchange used when assembling provider
// context.
type MessagePair struct {
	Sent     string
	Received string
}
