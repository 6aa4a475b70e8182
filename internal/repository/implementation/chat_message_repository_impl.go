package implementation

import (
	"context"

	"gorm.io/gorm"

	"pilotpro/internal/entity"
	"pilotpro/internal/mapper"
	"pilotpro/internal/model"
	"pilotpro/internal/repository/contract"
)

type ChatMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatMessageRepository(db *gorm.DB) contract.ChatMessageRepository {
	return &ChatMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatMessageRepositoryImpl) Append(ctx context.Context, message *entity.StoredChatMessage) error {
	m := r.mapper.ToModel(message)
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Create(m).Error
	})
	if err != nil {
		return storageErr(err)
	}
	*message = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChatMessageRepositoryImpl) FindByUsername(ctx context.Context, username string) ([]*entity.StoredChatMessage, error) {
	var rows []*model.ChatMessage
	err := withRetry(func() error {
		return r.db.WithContext(ctx).
			Where("username = ?", username).
			Order("created_at ASC, id ASC").
			Find(&rows).Error
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return r.mapper.ToEntities(rows), nil
}

func (r *ChatMessageRepositoryImpl) FindLastN(ctx context.Context, username string, n int) ([]*entity.StoredChatMessage, error) {
	if n <= 0 {
		return nil, nil
	}
	var rows []*model.ChatMessage
	err := withRetry(func() error {
		return r.db.WithContext(ctx).
			Where("username = ?", username).
			Order("created_at DESC, id DESC").
			Limit(n).
			Find(&rows).Error
	})
	if err != nil {
		return nil, storageErr(err)
	}
	// Reverse back to oldest-first within the window.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return r.mapper.ToEntities(rows), nil
}

func (r *ChatMessageRepositoryImpl) DeleteByUsername(ctx context.Context, username string) error {
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Where("username = ?", username).Delete(&model.ChatMessage{}).Error
	})
	return storageErr(err)
}

var _ contract.ChatMessageRepository = (*ChatMessageRepositoryImpl)(nil)
