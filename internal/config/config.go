package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Mail     MailConfig
	Archive  ArchiveConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogLevel       string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	PulseTTL      int // seconds
}

// MailConfig drives the IMAP report-fetch pipeline. The pipeline is
// disabled when User or Password is empty.
type MailConfig struct {
	IMAPHost     string
	IMAPPort     string
	User         string
	Password     string
	Mailbox      string
	FetchHour    int    // local hour of the daily scheduled fetch
	FetchTZ      string // IANA zone the schedule runs in
	MinStaleHrs  int    // skip a run when the last success is fresher than this
	MaxDaysBack  int
	BaseDaysBack int
}

// ArchiveConfig points at an optional S3-compatible bucket where raw
// uploaded workbooks are kept. Archiving is skipped when Endpoint is empty.
type ArchiveConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_LOG_LEVEL", "info")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "opsdash")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_PULSE_TTL_SECONDS", 60)
		viper.SetDefault("IMAP_HOST", "imap.gmail.com")
		viper.SetDefault("IMAP_PORT", "993")
		viper.SetDefault("IMAP_USER", "")
		viper.SetDefault("IMAP_PASS", "")
		viper.SetDefault("IMAP_MAILBOX", "INBOX")
		viper.SetDefault("MAIL_FETCH_HOUR", 6)
		viper.SetDefault("MAIL_FETCH_TZ", "America/New_York")
		viper.SetDefault("MAIL_MIN_STALE_HOURS", 12)
		viper.SetDefault("MAIL_MAX_DAYS_BACK", 14)
		viper.SetDefault("MAIL_BASE_DAYS_BACK", 3)
		viper.SetDefault("ARCHIVE_ENDPOINT", "")
		viper.SetDefault("ARCHIVE_ACCESS_KEY", "")
		viper.SetDefault("ARCHIVE_SECRET_KEY", "")
		viper.SetDefault("ARCHIVE_BUCKET", "report-archive")
		viper.SetDefault("ARCHIVE_USE_SSL", true)

		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				LogLevel:       viper.GetString("SERVER_LOG_LEVEL"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:       viper.GetBool("CACHE_ENABLED"),
				RedisURL:      viper.GetString("REDIS_URL"),
				RedisHost:     viper.GetString("REDIS_HOST"),
				RedisPort:     viper.GetString("REDIS_PORT"),
				RedisPassword: viper.GetString("REDIS_PASSWORD"),
				RedisDB:       viper.GetInt("REDIS_DB"),
				PulseTTL:      viper.GetInt("CACHE_PULSE_TTL_SECONDS"),
			},
			Mail: MailConfig{
				IMAPHost:     viper.GetString("IMAP_HOST"),
				IMAPPort:     viper.GetString("IMAP_PORT"),
				User:         viper.GetString("IMAP_USER"),
				Password:     viper.GetString("IMAP_PASS"),
				Mailbox:      viper.GetString("IMAP_MAILBOX"),
				FetchHour:    viper.GetInt("MAIL_FETCH_HOUR"),
				FetchTZ:      viper.GetString("MAIL_FETCH_TZ"),
				MinStaleHrs:  viper.GetInt("MAIL_MIN_STALE_HOURS"),
				MaxDaysBack:  viper.GetInt("MAIL_MAX_DAYS_BACK"),
				BaseDaysBack: viper.GetInt("MAIL_BASE_DAYS_BACK"),
			},
			Archive: ArchiveConfig{
				Endpoint:  viper.GetString("ARCHIVE_ENDPOINT"),
				AccessKey: viper.GetString("ARCHIVE_ACCESS_KEY"),
				SecretKey: viper.GetString("ARCHIVE_SECRET_KEY"),
				Bucket:    viper.GetString("ARCHIVE_BUCKET"),
				UseSSL:    viper.GetBool("ARCHIVE_USE_SSL"),
			},
		}
	})

	return instance
}
