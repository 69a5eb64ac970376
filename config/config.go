package config

import (
	"github.com/Mdx2025/emailbot-backend/internal/logger"
	"github.com/Mdx2025/emailbot-backend/internal/tracing"
)

type AppConfig struct {
	APIPort     string `env:"PORT" envDefault:"11000"`
	APIKey      string `env:"API_KEY,required"`
	RabbitMQURL string `env:"RABBITMQ_URL"`
	Logger      *logger.Config
	Tracing     *tracing.JaegerConfig
}

type DatabaseConfig struct {
	Host            string `env:"POSTGRES_HOST"`
	Port            string `env:"POSTGRES_PORT" envDefault:"5432"`
	User            string `env:"POSTGRES_USER"`
	DBName          string `env:"POSTGRES_DB_NAME"`
	Password        string `env:"POSTGRES_PASSWORD"`
	MaxConn         int    `env:"POSTGRES_DB_MAX_CONN" envDefault:"20"`
	MaxIdleConn     int    `env:"POSTGRES_DB_MAX_IDLE_CONN" envDefault:"10"`
	ConnMaxLifetime int    `env:"POSTGRES_DB_CONN_MAX_LIFETIME" envDefault:"60"`
	LogLevel        string `env:"POSTGRES_LOG_LEVEL" envDefault:"WARN"`
	SSLMode         string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
}

// StorageConfig selects the draft store backend: "postgres" or "file".
type StorageConfig struct {
	Backend  string `env:"STORAGE_BACKEND" envDefault:"postgres"`
	FileRoot string `env:"STORAGE_FILE_ROOT" envDefault:"data"`
}

type GenerationConfig struct {
	Url            string `env:"GENERATION_API_URL,required"`
	ApiKey         string `env:"GENERATION_API_KEY"`
	TimeoutSeconds int    `env:"GENERATION_TIMEOUT_SECONDS" envDefault:"30"`
	MaxTokens      int    `env:"GENERATION_MAX_TOKENS" envDefault:"1024"`
}

type MailboxConfig struct {
	IMAPHost     string `env:"MAILBOX_IMAP_HOST"`
	IMAPPort     string `env:"MAILBOX_IMAP_PORT" envDefault:"993"`
	SMTPHost     string `env:"MAILBOX_SMTP_HOST"`
	SMTPPort     string `env:"MAILBOX_SMTP_PORT" envDefault:"587"`
	Username     string `env:"MAILBOX_USERNAME"`
	Password     string `env:"MAILBOX_PASSWORD"`
	Folder       string `env:"MAILBOX_FOLDER" envDefault:"INBOX"`
	FromAddress  string `env:"MAILBOX_FROM_ADDRESS"`
	FromName     string `env:"MAILBOX_FROM_NAME"`
	SenderDomain string `env:"MAILBOX_SENDER_DOMAIN"`
}

type CRMConfig struct {
	Url      string `env:"CRM_API_URL"`
	ApiToken string `env:"CRM_API_TOKEN"`
	// SyncSchedule drives the reconciliation sweep for failed mirrors,
	// seconds-resolution cron expression.
	SyncSchedule string `env:"CRM_SYNC_SCHEDULE" envDefault:"0 */10 * * * *"`
}

type FollowupConfig struct {
	OffsetDays []int `env:"FOLLOWUP_OFFSET_DAYS" envDefault:"3,5,6" envSeparator:","`
}
