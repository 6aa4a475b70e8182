package implementation

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"pilotpro/internal/entity"
	"pilotpro/internal/mapper"
	"pilotpro/internal/model"
	"pilotpro/internal/repository/contract"
)

type SessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSessionRepository(db *gorm.DB) contract.SessionRepository {
	return &SessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, session *entity.Session) error {
	m := r.mapper.ToModel(session)
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Create(m).Error
	})
	return storageErr(err)
}

func (r *SessionRepositoryImpl) FindByTokenID(ctx context.Context, tokenID string) (*entity.Session, error) {
	var m model.Session
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&m).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageErr(err)
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SessionRepositoryImpl) Delete(ctx context.Context, tokenID string) error {
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Where("token_id = ?", tokenID).Delete(&model.Session{}).Error
	})
	return storageErr(err)
}

func (r *SessionRepositoryImpl) DeleteByUsername(ctx context.Context, username string) error {
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Where("username = ?", username).Delete(&model.Session{}).Error
	})
	return storageErr(err)
}

func (r *SessionRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) error {
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&model.Session{}).Error
	})
	return storageErr(err)
}

func (r *SessionRepositoryImpl) FindLastBefore(ctx context.Context, username string, before time.Time) (*entity.Session, error) {
	var m model.Session
	err := withRetry(func() error {
		return r.db.WithContext(ctx).
			Where("username = ? AND created_at < ?", username, before).
			Order("created_at DESC").
			First(&m).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageErr(err)
	}
	return r.mapper.ToEntity(&m), nil
}
