package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Qdrant   QdrantConfig
	Gemini   GeminiConfig
	Storage  StorageConfig
	Worker   WorkerConfig
	Auth     AuthConfig
	Google   GoogleConfig
	Log      LogConfig

	// DotEnvLoaded is false when no .env file was found.
	DotEnvLoaded bool
}

type ServerConfig struct {
	Port        string
	Env         string
	BaseURL     string
	CORSOrigins string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// QdrantConfig is optional: an empty URL disables the candidate index.
type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	MaxRetries     int
}

type StorageConfig struct {
	Driver      string
	UploadPath  string
	MaxFileSize int64
	S3          S3Config
}

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

type WorkerConfig struct {
	Concurrency       int
	QueueSize         int
	PollInterval      time.Duration
	// StaleAfter is how long an upload may sit in processing before the
	// poller hands it back to pending.
	StaleAfter        time.Duration
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
}

// AuthConfig holds the shared secret of the hosted auth provider. An empty
// secret disables token verification.
type AuthConfig struct {
	JWTSecret string
}

type GoogleConfig struct {
	CredentialsFile string
	TokenFile       string
	GmailQuery      string
	GmailMaxResults int64
	DriveFolderID   string
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

func Load() *Config {
	loaded := godotenv.Load() == nil

	port := getEnv("PORT", "3000")

	return &Config{
		DotEnvLoaded: loaded,
		Server: ServerConfig{
			Port:        port,
			Env:         getEnv("ENV", "development"),
			BaseURL:     strings.TrimRight(getEnv("BASE_URL", "http://localhost:"+port), "/"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "cv_intake"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "cv_candidates"),
		},
		Gemini: GeminiConfig{
			APIKey:         getEnv("GEMINI_API_KEY", ""),
			Model:          getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbeddingModel: getEnv("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
			MaxRetries:     getEnvAsInt("GEMINI_MAX_RETRIES", 3),
		},
		Storage: StorageConfig{
			Driver:      getEnv("STORAGE_DRIVER", "local"),
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
			S3: S3Config{
				Endpoint:  getEnv("S3_ENDPOINT", "localhost:9000"),
				AccessKey: getEnv("S3_ACCESS_KEY", ""),
				SecretKey: getEnv("S3_SECRET_KEY", ""),
				Bucket:    getEnv("S3_BUCKET", "cv-uploads"),
				UseSSL:    getEnvAsBool("S3_USE_SSL", false),
				PublicURL: strings.TrimRight(getEnv("S3_PUBLIC_URL", ""), "/"),
			},
		},
		Worker: WorkerConfig{
			Concurrency:       getEnvAsInt("WORKER_CONCURRENCY", 3),
			QueueSize:         getEnvAsInt("WORKER_QUEUE_SIZE", 100),
			PollInterval:      getEnvAsDuration("WORKER_POLL_INTERVAL", "10s"),
			StaleAfter:        getEnvAsDuration("WORKER_STALE_AFTER", "15m"),
			RetryMaxAttempts:  getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			RetryInitialDelay: getEnvAsDuration("RETRY_INITIAL_DELAY", "2s"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		},
		Google: GoogleConfig{
			CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
			TokenFile:       getEnv("GOOGLE_TOKEN_FILE", "token.json"),
			GmailQuery:      getEnv("GMAIL_QUERY", "has:attachment filename:pdf newer_than:7d"),
			GmailMaxResults: getEnvAsInt64("GMAIL_MAX_RESULTS", 50),
			DriveFolderID:   getEnv("DRIVE_FOLDER_ID", ""),
		},
		Log: LogConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
