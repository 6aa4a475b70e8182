package implementation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"pilotpro/internal/entity"
	"pilotpro/internal/mapper"
	"pilotpro/internal/model"
	"pilotpro/internal/repository/contract"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	modelUser := r.mapper.ToModel(user)
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Create(modelUser).Error
	})
	if err != nil {
		return storageErr(err)
	}
	*user = *r.mapper.ToEntity(modelUser)
	return nil
}

func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var modelUser model.User
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Where("username = ?", username).First(&modelUser).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageErr(err)
	}
	return r.mapper.ToEntity(&modelUser), nil
}

func (r *UserRepositoryImpl) UpdateRole(ctx context.Context, username string, role entity.UserRole) error {
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Model(&model.User{}).
			Where("username = ?", username).
			Update("role", string(role)).Error
	})
	return storageErr(err)
}

func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, username, hash string, mustChange bool) error {
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Model(&model.User{}).
			Where("username = ?", username).
			Updates(map[string]interface{}{
				"password_hash":        hash,
				"must_change_password": mustChange,
			}).Error
	})
	return storageErr(err)
}

func (r *UserRepositoryImpl) Delete(ctx context.Context, username string) error {
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Where("username = ?", username).Delete(&model.User{}).Error
	})
	return storageErr(err)
}

func (r *UserRepositoryImpl) CountByRole(ctx context.Context, role entity.UserRole) (int64, error) {
	var count int64
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Model(&model.User{}).
			Where("role = ?", string(role)).
			Count(&count).Error
	})
	if err != nil {
		return 0, storageErr(err)
	}
	return count, nil
}
