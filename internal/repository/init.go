package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Mdx2025/emailbot-backend/config"
	"github.com/Mdx2025/emailbot-backend/interfaces"
	"github.com/Mdx2025/emailbot-backend/internal/models"
)

type Repositories struct {
	DraftRepository            interfaces.DraftRepository
	ProcessedMessageRepository interfaces.ProcessedMessageRepository
}

// InitRepositories selects the storage backend once at startup. Call sites
// depend on the interfaces only and never branch on the backend inline.
func InitRepositories(storageConfig *config.StorageConfig, db *gorm.DB) (*Repositories, error) {
	switch storageConfig.Backend {
	case "postgres":
		if db == nil {
			return nil, fmt.Errorf("postgres backend selected but no database connection provided")
		}
		return &Repositories{
			DraftRepository:            NewDraftRepository(db),
			ProcessedMessageRepository: NewProcessedMessageRepository(db),
		}, nil

	case "file":
		draftRepo, err := NewDraftFileRepository(storageConfig.FileRoot)
		if err != nil {
			return nil, err
		}
		processedRepo, err := NewProcessedMessageFileRepository(storageConfig.FileRoot)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			DraftRepository:            draftRepo,
			ProcessedMessageRepository: processedRepo,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s", storageConfig.Backend)
	}
}

func MigrateDB(dbConfig *config.DatabaseConfig, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxOpenConns(5)

	err = db.AutoMigrate(
		&models.Draft{},
		&models.ProcessedMessage{},
	)

	sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConn)
	sqlDB.SetMaxOpenConns(dbConfig.MaxConn)
	sqlDB.SetConnMaxLifetime(time.Duration(dbConfig.ConnMaxLifetime) * time.Minute)

	return err
}
