package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"pilotpro/internal/entity"
	"pilotpro/internal/pkg/logger"
	"pilotpro/internal/repository/contract"
	"pilotpro/internal/repository/memory"
)

// Session states: Active, Expired, Terminated. Active→Expired happens lazily
// when a validation observes now ≥ expires_at; Active→Terminated is an
// explicit logout. Both end states are terminal, a token never resurrects.

type ISessionService interface {
	Create(ctx context.Context, username string, role entity.UserRole) (string, error)
	Validate(ctx context.Context, token string) (bool, entity.UserRole, error)
	Terminate(ctx context.Context, token string) error

	// LastSessionTime returns the creation time of the session immediately
	// prior to the one identified by token, or nil when it is the first.
	LastSessionTime(ctx context.Context, token string) (*time.Time, error)
}

type sessionService struct {
	sessions contract.SessionRepository
	cache    *memory.SessionCache
	secret   []byte
	ttl      time.Duration
	log      logger.ILogger
	now      func() time.Time
}

func NewSessionService(
	sessions contract.SessionRepository,
	cache *memory.SessionCache,
	secret string,
	ttl time.Duration,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		sessions: sessions,
		cache:    cache,
		secret:   []byte(secret),
		ttl:      ttl,
		log:      log,
		now:      time.Now,
	}
}

func (s *sessionService) Create(ctx context.Context, username string, role entity.UserRole) (string, error) {
	now := s.now()
	session := &entity.Session{
		TokenID:   uuid.New().String(),
		Username:  username,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	claims := jwt.MapClaims{
		"jti":      session.TokenID,
		"username": username,
		"role":     string(role),
		"iat":      now.Unix(),
		"exp":      session.ExpiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return "", err
	}
	s.cache.Save(session)

	s.log.Info("sessions", "session created", map[string]interface{}{
		"username": username, "expires_at": session.ExpiresAt,
	})
	return signed, nil
}

// tokenID verifies the signature and extracts the jti. The row behind the
// jti stays authoritative for validity and revocation.
func (s *sessionService) tokenID(token string) (string, bool) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithoutClaimsValidation())
	if err != nil || !parsed.Valid {
		return "", false
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	jti, _ := claims["jti"].(string)
	return jti, jti != ""
}

func (s *sessionService) Validate(ctx context.Context, token string) (bool, entity.UserRole, error) {
	jti, ok := s.tokenID(token)
	if !ok {
		return false, "", nil
	}

	session, cached := s.cache.Get(jti)
	if !cached {
		var err error
		session, err = s.sessions.FindByTokenID(ctx, jti)
		if err != nil {
			return false, "", err
		}
		if session == nil {
			return false, "", nil
		}
	}

	if session.Expired(s.now()) {
		// Lazy purge: the first validation after expiry removes the row.
		s.cache.Delete(jti)
		if err := s.sessions.Delete(ctx, jti); err != nil {
			return false, "", err
		}
		return false, "", nil
	}

	if !cached {
		s.cache.Save(session)
	}
	return true, session.Role, nil
}

func (s *sessionService) Terminate(ctx context.Context, token string) error {
	jti, ok := s.tokenID(token)
	if !ok {
		// Nothing to terminate; the operation is idempotent.
		return nil
	}
	s.cache.Delete(jti)
	return s.sessions.Delete(ctx, jti)
}

func (s *sessionService) LastSessionTime(ctx context.Context, token string) (*time.Time, error) {
	jti, ok := s.tokenID(token)
	if !ok {
		return nil, nil
	}
	current, err := s.sessions.FindByTokenID(ctx, jti)
	if err != nil || current == nil {
		return nil, err
	}
	previous, err := s.sessions.FindLastBefore(ctx, current.Username, current.CreatedAt)
	if err != nil || previous == nil {
		return nil, err
	}
	t := previous.CreatedAt
	return &t, nil
}
