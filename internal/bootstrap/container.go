package bootstrap

import (
	"fmt"

	"gorm.io/gorm"

	"pilotpro/internal/config"
	"pilotpro/internal/model"
	"pilotpro/internal/pkg/logger"
	"pilotpro/internal/repository/implementation"
	"pilotpro/internal/repository/memory"
	"pilotpro/internal/service"
	"pilotpro/pkg/database"
	"pilotpro/pkg/llm/failover"
	"pilotpro/pkg/llm/openai"
	"pilotpro/pkg/llm/personalai"
)

// Container wires the whole application graph: two database handles, the
// repositories on top of them, and the services the CLI talks to.
type Container struct {
	Logger logger.ILogger

	UserService    service.IUserService
	SessionService service.ISessionService
	ChatLogService service.IChatLogService
	ChatService    service.IChatService

	usersDB *gorm.DB
	chatDB  *gorm.DB
}

func NewContainer(cfg *config.Config) (*Container, error) {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Accounts and sessions share one file; the transcript lives in another.
	usersDB, err := database.Open(cfg.Database.UsersPath, &model.User{}, &model.Session{})
	if err != nil {
		return nil, fmt.Errorf("opening users database: %w", err)
	}
	chatDB, err := database.Open(cfg.Database.ChatPath, &model.ChatMessage{})
	if err != nil {
		database.Close(usersDB)
		return nil, fmt.Errorf("opening chat database: %w", err)
	}

	userRepo := implementation.NewUserRepository(usersDB)
	sessionRepo := implementation.NewSessionRepository(usersDB)
	chatRepo := implementation.NewChatMessageRepository(chatDB)
	sessionCache := memory.NewSessionCache()

	userService := service.NewUserService(
		userRepo,
		sessionRepo,
		chatRepo,
		cfg.Security.MasterKey,
		cfg.Security.BcryptCost,
		sysLogger,
	)
	sessionService := service.NewSessionService(
		sessionRepo,
		sessionCache,
		cfg.Security.SessionSecret,
		cfg.Security.SessionTTL,
		sysLogger,
	)
	chatLogService := service.NewChatLogService(chatRepo, userService)
	contextService := service.NewContextService(chatLogService, sessionService, sysLogger)

	primary := personalai.New(
		cfg.Providers.Primary.BaseURL,
		cfg.Providers.Primary.APIKey,
		cfg.Providers.PrimaryDomain,
		cfg.Providers.Primary.Timeout,
	)
	secondary := openai.New(
		cfg.Providers.Secondary.BaseURL,
		cfg.Providers.Secondary.APIKey,
		cfg.Providers.SecondaryModel,
		cfg.Providers.Secondary.Timeout,
	)
	chain := failover.NewChain(primary, secondary)

	chatService := service.NewChatService(chain, contextService, chatLogService, sysLogger)

	return &Container{
		Logger:         sysLogger,
		UserService:    userService,
		SessionService: sessionService,
		ChatLogService: chatLogService,
		ChatService:    chatService,
		usersDB:        usersDB,
		chatDB:         chatDB,
	}, nil
}

// Close flushes the logger and releases both database handles.
func (c *Container) Close() error {
	_ = c.Logger.Sync()
	if err := database.Close(c.usersDB); err != nil {
		return err
	}
	return database.Close(c.chatDB)
}
