package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"pilotpro/internal/apperr"
	"pilotpro/internal/dto"
	"pilotpro/internal/entity"
	"pilotpro/internal/pkg/logger"
	"pilotpro/internal/repository/contract"
	"pilotpro/pkg/crypto"
)

// DefaultTempPassword is assigned to admin-created accounts. The owner must
// change it on first login.
const DefaultTempPassword = "pilotpro"

type IUserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) error
	Authenticate(ctx context.Context, username, password string) (*dto.LoginResult, error)
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error
	ModifyRole(ctx context.Context, caller, target string, role entity.UserRole) error
	AddUserByAdmin(ctx context.Context, caller string, req *dto.RegisterRequest) (string, error)
	DeleteUser(ctx context.Context, caller, target string) error
	UserKey(ctx context.Context, username string) ([]byte, error)
	FullName(ctx context.Context, username string) (string, error)
}

type userService struct {
	users     contract.UserRepository
	sessions  contract.SessionRepository
	chats     contract.ChatMessageRepository
	masterKey []byte
	cost      int
	validate  *validator.Validate
	log       logger.ILogger
	// dummyHash keeps the failure path shaped like the success path so a
	// missing username costs the same as a wrong password.
	dummyHash []byte
}

func NewUserService(
	users contract.UserRepository,
	sessions contract.SessionRepository,
	chats contract.ChatMessageRepository,
	masterKey []byte,
	bcryptCost int,
	log logger.ILogger,
) IUserService {
	dummy, err := bcrypt.GenerateFromPassword([]byte("pilotpro-dummy-credential"), bcryptCost)
	if err != nil {
		// Only reachable with an out-of-range cost; fall back to the default
		// so the comparison path stays constant-structure.
		dummy, _ = bcrypt.GenerateFromPassword([]byte("pilotpro-dummy-credential"), bcrypt.DefaultCost)
	}
	return &userService{
		users:     users,
		sessions:  sessions,
		chats:     chats,
		masterKey: masterKey,
		cost:      bcryptCost,
		validate:  validator.New(),
		log:       log,
		dummyHash: dummy,
	}
}

func (s *userService) Register(ctx context.Context, req *dto.RegisterRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	role := entity.UserRole(req.Role)
	if req.Role == "" {
		role = entity.UserRoleUser
	}
	if !entity.ValidRole(role) {
		return fmt.Errorf("%w: invalid role %q", apperr.ErrValidation, req.Role)
	}

	existing, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperr.ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	userKey, err := crypto.GenerateUserKey()
	if err != nil {
		return err
	}
	wrapped, err := crypto.Wrap(userKey, s.masterKey)
	if err != nil {
		return err
	}
	encryptedName, err := crypto.EncryptDetail(req.FullName, userKey)
	if err != nil {
		return err
	}

	user := &entity.User{
		Username:          req.Username,
		PasswordHash:      string(hash),
		Role:              role,
		WrappedUserKey:    wrapped,
		EncryptedFullName: encryptedName,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}

	s.log.Info("users", "user registered", map[string]interface{}{
		"username": req.Username,
		"role":     string(role),
	})
	return nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*dto.LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	storedHash := s.dummyHash
	if user != nil {
		storedHash = []byte(user.PasswordHash)
	}
	compareErr := bcrypt.CompareHashAndPassword(storedHash, []byte(password))
	if user == nil || compareErr != nil {
		return nil, apperr.ErrAuthentication
	}

	userKey, err := crypto.Unwrap(user.WrappedUserKey, s.masterKey)
	if err != nil {
		// Wrong or rotated master key: fatal for this record, not for the
		// process.
		s.log.Error("users", "user key unwrap failed", map[string]interface{}{
			"username": username, "error": err.Error(),
		})
		return nil, err
	}
	fullName, err := crypto.DecryptDetail(user.EncryptedFullName, userKey)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResult{
		Username:           user.Username,
		FullName:           fullName,
		Role:               string(user.Role),
		MustChangePassword: user.MustChangePassword,
	}, nil
}

func (s *userService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if _, err := s.Authenticate(ctx, username, oldPassword); err != nil {
		return err
	}
	return s.setPassword(ctx, username, newPassword, false)
}

func (s *userService) setPassword(ctx context.Context, username, newPassword string, mustChange bool) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", apperr.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, username, string(hash), mustChange); err != nil {
		return err
	}
	s.log.Info("users", "password updated", map[string]interface{}{"username": username})
	return nil
}

// requireAdmin re-reads the caller's live role. A role captured at login is
// only a cache; demotion must take effect before session expiry.
func (s *userService) requireAdmin(ctx context.Context, caller string) error {
	user, err := s.users.FindByUsername(ctx, caller)
	if err != nil {
		return err
	}
	if user == nil || user.Role != entity.UserRoleAdmin {
		return apperr.ErrAuthorization
	}
	return nil
}

func (s *userService) ModifyRole(ctx context.Context, caller, target string, role entity.UserRole) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if !entity.ValidRole(role) {
		return fmt.Errorf("%w: invalid role %q", apperr.ErrValidation, role)
	}
	user, err := s.users.FindByUsername(ctx, target)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user %q", apperr.ErrNotFound, target)
	}
	if err := s.users.UpdateRole(ctx, target, role); err != nil {
		return err
	}
	s.log.Info("users", "role changed", map[string]interface{}{
		"username": target, "role": string(role), "by": caller,
	})
	return nil
}

func (s *userService) AddUserByAdmin(ctx context.Context, caller string, req *dto.RegisterRequest) (string, error) {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return "", err
	}
	req.Password = DefaultTempPassword
	if err := s.Register(ctx, req); err != nil {
		return "", err
	}
	// Everyone knows the shared default, so force a reset on first login.
	if err := s.setPassword(ctx, req.Username, DefaultTempPassword, true); err != nil {
		return "", err
	}
	return DefaultTempPassword, nil
}

func (s *userService) DeleteUser(ctx context.Context, caller, target string) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	user, err := s.users.FindByUsername(ctx, target)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user %q", apperr.ErrNotFound, target)
	}
	if user.Role == entity.UserRoleAdmin {
		admins, err := s.users.CountByRole(ctx, entity.UserRoleAdmin)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return fmt.Errorf("%w: cannot delete the last admin", apperr.ErrAuthorization)
		}
	}

	// Cascade: transcript rows and sessions go with the user.
	if err := s.chats.DeleteByUsername(ctx, target); err != nil {
		return err
	}
	if err := s.sessions.DeleteByUsername(ctx, target); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, target); err != nil {
		return err
	}
	s.log.Info("users", "user deleted", map[string]interface{}{
		"username": target, "by": caller,
	})
	return nil
}

func (s *userService) UserKey(ctx context.Context, username string) ([]byte, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %q", apperr.ErrNotFound, username)
	}
	return crypto.Unwrap(user.WrappedUserKey, s.masterKey)
}

func (s *userService) FullName(ctx context.Context, username string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", fmt.Errorf("%w: user %q", apperr.ErrNotFound, username)
	}
	userKey, err := crypto.Unwrap(user.WrappedUserKey, s.masterKey)
	if err != nil {
		return "", err
	}
	return crypto.DecryptDetail(user.EncryptedFullName, userKey)
}
