package service

import (
	"context"

	"pilotpro/internal/entity"
	"pilotpro/internal/repository/contract"
	"pilotpro/pkg/crypto"
)

// IChatLogService is the transcript store. Message bodies are sealed with
// the owning user's key before they reach the repository, so the chat file
// never holds plaintext; whatever is written must read back byte-identical.
type IChatLogService interface {
	Append(ctx context.Context, username string, direction entity.MessageDirection, content string) error
	Messages(ctx context.Context, username string) ([]*entity.ChatMessage, error)
	LastN(ctx context.Context, username string, n int) ([]*entity.ChatMessage, error)
}

type chatLogService struct {
	chats contract.ChatMessageRepository
	users IUserService
}

func NewChatLogService(chats contract.ChatMessageRepository, users IUserService) IChatLogService {
	return &chatLogService{chats: chats, users: users}
}

func (s *chatLogService) Append(ctx context.Context, username string, direction entity.MessageDirection, content string) error {
	// The user must exist at write time; UserKey reports ErrNotFound
	// otherwise.
	userKey, err := s.users.UserKey(ctx, username)
	if err != nil {
		return err
	}
	ciphertext, err := crypto.EncryptDetail(content, userKey)
	if err != nil {
		return err
	}
	return s.chats.Append(ctx, &entity.StoredChatMessage{
		Username:   username,
		Direction:  direction,
		Ciphertext: ciphertext,
	})
}

func (s *chatLogService) decryptAll(ctx context.Context, username string, rows []*entity.StoredChatMessage) ([]*entity.ChatMessage, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	userKey, err := s.users.UserKey(ctx, username)
	if err != nil {
		return nil, err
	}
	messages := make([]*entity.ChatMessage, len(rows))
	for i, row := range rows {
		content, err := crypto.DecryptDetail(row.Ciphertext, userKey)
		if err != nil {
			return nil, err
		}
		messages[i] = &entity.ChatMessage{
			Id:        row.Id,
			Username:  row.Username,
			Direction: row.Direction,
			Content:   content,
			CreatedAt: row.CreatedAt,
		}
	}
	return messages, nil
}

func (s *chatLogService) Messages(ctx context.Context, username string) ([]*entity.ChatMessage, error) {
	rows, err := s.chats.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.decryptAll(ctx, username, rows)
}

func (s *chatLogService) LastN(ctx context.Context, username string, n int) ([]*entity.ChatMessage, error) {
	rows, err := s.chats.FindLastN(ctx, username, n)
	if err != nil {
		return nil, err
	}
	return s.decryptAll(ctx, username, rows)
}
