package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultRedisURL = "redis://localhost:6379/0"

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Queue    QueueConfig
	Storage  StorageConfig
	Image    ImageConfig
	Supabase SupabaseConfig
	S3       S3Config
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type LogConfig struct {
	Level string
}

// QueueConfig follows the broker / result backend split. Both default to
// REDIS_URL so a single connection string is enough.
type QueueConfig struct {
	BrokerURL     string
	ResultBackend string
	Workers       int
	ResultTTL     time.Duration
}

type StorageConfig struct {
	UploadDir       string
	ProcessedDir    string
	MaxFileSize     int64
	Retention       time.Duration
	CleanupInterval time.Duration
}

type ImageConfig struct {
	ResizeWidth int
	MaxPixels   int64
}

type SupabaseConfig struct {
	URL    string
	KEY    string
	BUCKET string
}

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	redisURL := getEnv("REDIS_URL", defaultRedisURL)

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8000"),
			ReadTimeout:     getDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDuration("WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Queue: QueueConfig{
			BrokerURL:     getEnv("BROKER_URL", redisURL),
			ResultBackend: getEnv("RESULT_BACKEND", redisURL),
			Workers:       getEnvAsInt("WORKERS", 4),
			ResultTTL:     getDuration("RESULT_TTL", 24*time.Hour),
		},
		Storage: StorageConfig{
			UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
			ProcessedDir:    getEnv("PROCESSED_DIR", "processed_images"),
			MaxFileSize:     getEnvAsInt64("MAX_FILE_SIZE", 10*1024*1024), // 10MB
			Retention:       getDuration("RETENTION", 0),
			CleanupInterval: getDuration("CLEANUP_INTERVAL", time.Hour),
		},
		Image: ImageConfig{
			ResizeWidth: getEnvAsInt("RESIZE_WIDTH", 600),
			MaxPixels:   getEnvAsInt64("MAX_PIXELS", 2*89_478_485),
		},
		Supabase: SupabaseConfig{
			URL:    getEnv("SUPABASE_URL", ""),
			KEY:    getEnv("SUPABASE_KEY", ""),
			BUCKET: getEnv("SUPABASE_BUCKET", ""),
		},
		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			Bucket:    getEnv("S3_BUCKET", "processed-images"),
			UseSSL:    getEnvAsBool("S3_USE_SSL", false),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}
