package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pilotpro/internal/model"
	"pilotpro/internal/pkg/logger"
	"pilotpro/internal/repository/contract"
	"pilotpro/internal/repository/implementation"
	"pilotpro/internal/repository/memory"
	"pilotpro/pkg/database"
)

const testSessionTTL = 30 * time.Minute

var testMasterKey = []byte("0123456789abcdef0123456789abcdef")

// testEnv wires the service graph onto throwaway database files, mirroring
// the production container.
type testEnv struct {
	users    IUserService
	sessions ISessionService
	chatLog  IChatLogService
	contexts IContextService

	userRepo    contract.UserRepository
	sessionRepo contract.SessionRepository
	chatRepo    contract.ChatMessageRepository

	log logger.ILogger
}

// timeFarFuture is a cutoff later than anything a test will create.
func timeFarFuture() time.Time {
	return time.Now().Add(1000 * time.Hour)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	usersDB, err := database.Open(filepath.Join(dir, "users.db"), &model.User{}, &model.Session{})
	require.NoError(t, err)
	chatDB, err := database.Open(filepath.Join(dir, "chat.db"), &model.ChatMessage{})
	require.NoError(t, err)
	t.Cleanup(func() {
		database.Close(usersDB)
		database.Close(chatDB)
	})

	log := logger.NewZapLogger(filepath.Join(dir, "test.log"), false)

	userRepo := implementation.NewUserRepository(usersDB)
	sessionRepo := implementation.NewSessionRepository(usersDB)
	chatRepo := implementation.NewChatMessageRepository(chatDB)

	users := NewUserService(userRepo, sessionRepo, chatRepo, testMasterKey, bcrypt.MinCost, log)
	sessions := NewSessionService(sessionRepo, memory.NewSessionCache(), "test-secret", testSessionTTL, log)
	chatLog := NewChatLogService(chatRepo, users)
	contexts := NewContextService(chatLog, sessions, log)

	return &testEnv{
		users:       users,
		sessions:    sessions,
		chatLog:     chatLog,
		contexts:    contexts,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		chatRepo:    chatRepo,
		log:         log,
	}
}
