package config

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Security  SecurityConfig
	Providers ProvidersConfig
}

type AppConfig struct {
	Environment string
	LogFilePath string
}

type DatabaseConfig struct {
	UsersPath string
	ChatPath  string
}

type SecurityConfig struct {
	MasterKey     []byte
	SessionSecret string
	SessionTTL    time.Duration
	BcryptCost    int
}

type ProviderConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type ProvidersConfig struct {
	PrimaryDomain  string
	Primary        ProviderConfig
	Secondary      ProviderConfig
	SecondaryModel string
}

// Load reads configuration from the environment, with .env as a convenience
// overlay. The master key is required and must decode to a valid AES key;
// its absence aborts startup before any database is touched.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	rawKey := getEnv("MASTER_KEY", "")
	if rawKey == "" {
		return nil, fmt.Errorf("MASTER_KEY is not set")
	}
	masterKey, err := base64.StdEncoding.DecodeString(rawKey)
	if err != nil {
		return nil, fmt.Errorf("MASTER_KEY is not valid base64: %w", err)
	}
	if len(masterKey) != 16 && len(masterKey) != 24 && len(masterKey) != 32 {
		return nil, fmt.Errorf("MASTER_KEY must decode to 16, 24 or 32 bytes, got %d", len(masterKey))
	}

	return &Config{
		App: AppConfig{
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", "pilotpro.log"),
		},
		Database: DatabaseConfig{
			UsersPath: getEnv("USERS_DB_PATH", "DB/users.db"),
			ChatPath:  getEnv("CHAT_DB_PATH", "DB/chat.db"),
		},
		Security: SecurityConfig{
			MasterKey:     masterKey,
			SessionSecret: getEnv("SESSION_SECRET", rawKey),
			SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			BcryptCost:    getEnvAsInt("BCRYPT_COST", bcrypt.DefaultCost),
		},
		Providers: ProvidersConfig{
			PrimaryDomain: getEnv("PAI_DOMAIN", "ms"),
			Primary: ProviderConfig{
				BaseURL: getEnv("PAI_BASE_URL", "https://api.personal.ai/v1"),
				APIKey:  getEnv("PAI_API_KEY", ""),
				Timeout: getEnvAsDuration("PAI_TIMEOUT", 60*time.Second),
			},
			Secondary: ProviderConfig{
				BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
				APIKey:  getEnv("OPENAI_API_KEY", ""),
				Timeout: getEnvAsDuration("OPENAI_TIMEOUT", 30*time.Second),
			},
			SecondaryModel: getEnv("OPENAI_MODEL", "gpt-4"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
