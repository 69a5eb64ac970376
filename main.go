package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"github.com/Mdx2025/emailbot-backend/config"
	"github.com/Mdx2025/emailbot-backend/internal/database"
	"github.com/Mdx2025/emailbot-backend/internal/repository"
	"github.com/Mdx2025/emailbot-backend/server"
)

func main() {
	app := &cli.App{
		Name:  "leadflow",
		Usage: "sales-lead email triage and reply drafting service",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Run database migrations",
				Action: runMigrate,
			},
			{
				Name:   "server",
				Usage:  "Start the application server",
				Action: runServer,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func initConfig() *config.Config {
	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Config initialization failed: %v", err)
	}
	if cfg == nil {
		log.Fatalf("config is empty")
	}
	return cfg
}

// connectDatabase opens the Postgres connection. The file storage backend
// runs without one.
func connectDatabase(cfg *config.Config) *gorm.DB {
	if cfg.StorageConfig.Backend != "postgres" {
		return nil
	}

	db, err := database.NewConnection(&database.DatabaseConfig{
		DBName:          cfg.DatabaseConfig.DBName,
		Host:            cfg.DatabaseConfig.Host,
		Port:            cfg.DatabaseConfig.Port,
		User:            cfg.DatabaseConfig.User,
		Password:        cfg.DatabaseConfig.Password,
		MaxConn:         cfg.DatabaseConfig.MaxConn,
		MaxIdleConn:     cfg.DatabaseConfig.MaxIdleConn,
		ConnMaxLifetime: cfg.DatabaseConfig.ConnMaxLifetime,
		LogLevel:        cfg.DatabaseConfig.LogLevel,
		SSLMode:         cfg.DatabaseConfig.SSLMode,
	})
	if err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	return db
}

func runMigrate(c *cli.Context) error {
	cfg := initConfig()

	db := connectDatabase(cfg)
	if db == nil {
		log.Println("File storage backend selected, no migration needed")
		return nil
	}

	if err := repository.MigrateDB(cfg.DatabaseConfig, db); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}
	log.Println("Database migration completed successfully")
	return nil
}

func runServer(c *cli.Context) error {
	cfg := initConfig()
	db := connectDatabase(cfg)

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Leadflow starting up...")

	srv, err := server.NewServer(cfg, db)
	if err != nil {
		log.Fatalf("Server setup failed: %v", err)
	}

	if err := srv.Run(); err != nil {
		log.Fatalf("Server startup failed: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}
