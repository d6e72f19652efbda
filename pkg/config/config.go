package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	DocumentStore DocumentStoreConfig
	ObjectStore   ObjectStoreConfig
	LLM           LLMConfig
	OCR           OCRConfig
	Logger        LoggerConfig
	ProjectID     string
}

type LoggerConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DocumentStoreConfig selects where expense records live.
// Collection is the table name for postgres and the key namespace for redis.
type DocumentStoreConfig struct {
	Driver     string
	Collection string
}

type ObjectStoreConfig struct {
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	Bucket       string
	UsePathStyle bool
}

type LLMConfig struct {
	Provider   string
	OpenRouter OpenRouterConfig
	GigaChat   GigaChatConfig
}

type OpenRouterConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	SiteURL  string
	SiteName string
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	Model              string
	InsecureSkipVerify bool
}

type OCRConfig struct {
	Languages []string
	TempDir   string
}

const (
	DocumentStorePostgres = "postgres"
	DocumentStoreRedis    = "redis"

	ProviderOpenRouter = "openrouter"
	ProviderGigaChat   = "gigachat"

	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

func Load() (*Config, error) {
	// .env is optional; plain environment variables work as well (Docker/K8s)
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	bodyLimitMB, _ := strconv.Atoi(getEnv("SERVER_BODY_LIMIT_MB", "10"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
			BodyLimit:    bodyLimitMB * 1024 * 1024,
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "receipts"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			AutoMigrate: getEnv("DB_AUTO_MIGRATE", "true") == "true",
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		DocumentStore: DocumentStoreConfig{
			Driver:     strings.ToLower(getEnv("DOCUMENT_STORE_DRIVER", DocumentStorePostgres)),
			Collection: getEnv("DOCUMENT_COLLECTION", "expenses"),
		},
		ObjectStore: ObjectStoreConfig{
			Endpoint:     getEnv("OBJECT_STORE_ENDPOINT", ""),
			Region:       getEnv("OBJECT_STORE_REGION", "us-east-1"),
			AccessKey:    getEnv("OBJECT_STORE_ACCESS_KEY", ""),
			SecretKey:    getEnv("OBJECT_STORE_SECRET_KEY", ""),
			Bucket:       getEnv("OBJECT_STORE_BUCKET", "receipts"),
			UsePathStyle: getEnv("OBJECT_STORE_PATH_STYLE", "true") == "true",
		},
		LLM: LLMConfig{
			Provider: strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenRouter)),
			OpenRouter: OpenRouterConfig{
				APIKey:   getEnv("OPENROUTER_API_KEY", ""),
				BaseURL:  getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
				Model:    getEnv("OPENROUTER_MODEL", "openai/gpt-4o"),
				SiteURL:  getEnv("OPENROUTER_SITE_URL", ""),
				SiteName: getEnv("OPENROUTER_SITE_NAME", ""),
			},
			GigaChat: GigaChatConfig{
				APIKey:             getEnv("GIGACHAT_API_KEY", ""),
				Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
				Model:              getEnv("GIGACHAT_MODEL", "GigaChat"),
				InsecureSkipVerify: getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "false") == "true",
			},
		},
		OCR: OCRConfig{
			Languages: splitList(getEnv("OCR_LANGUAGES", "eng")),
			TempDir:   getEnv("UPLOAD_TEMP_DIR", os.TempDir()),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: strings.ToLower(getEnv("LOG_FORMAT", LogFormatJSON)),
		},
		ProjectID: getEnv("PROJECT_ID", "receipt-analyzer"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
