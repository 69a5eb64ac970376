package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/Mdx2025/emailbot-backend/internal/logger"
	"github.com/Mdx2025/emailbot-backend/internal/tracing"
)

type Config struct {
	AppConfig        *AppConfig
	DatabaseConfig   *DatabaseConfig
	StorageConfig    *StorageConfig
	GenerationConfig *GenerationConfig
	MailboxConfig    *MailboxConfig
	CRMConfig        *CRMConfig
	FollowupConfig   *FollowupConfig
}

func InitConfig() (*Config, error) {
	config := &Config{
		AppConfig: &AppConfig{
			Logger:  &logger.Config{},
			Tracing: &tracing.JaegerConfig{},
		},
		DatabaseConfig:   &DatabaseConfig{},
		StorageConfig:    &StorageConfig{},
		GenerationConfig: &GenerationConfig{},
		MailboxConfig:    &MailboxConfig{},
		CRMConfig:        &CRMConfig{},
		FollowupConfig:   &FollowupConfig{},
	}

	err := godotenv.Load()
	if err != nil {
		log.Print("Unable to load .env file")
	}

	err = env.Parse(config)
	if err != nil {
		log.Fatalf("Error loading leadflow config: %v", err)
	}

	return config, nil
}
