package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"events-webapp/auth"
	"events-webapp/config"
	"events-webapp/database"
	"events-webapp/handlers"
	"events-webapp/messages"
	"events-webapp/model"
	"events-webapp/router"
	"events-webapp/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backend, closeBackend, err := openBackend(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeBackend()

	blobs, err := openBlobs(cfg)
	if err != nil {
		log.Fatal(err)
	}

	cols := database.NewCollections(backend)
	provider := auth.NewProvider(cols.Users, cfg.SigningKey, cfg.SessionTTL)
	if cfg.AdminEmail != "" {
		if err := provider.EnsureUser(ctx, cfg.AdminEmail, cfg.AdminPassword, model.RoleAdmin); err != nil {
			log.Fatalf("bootstrap admin: %v", err)
		}
	}

	h := handlers.New(cols, provider, storage.NewUploader(blobs), messages.NewCatalog(cfg.DefaultLocale), cfg.SessionTTL)

	app := fiber.New(fiber.Config{
		BodyLimit: 12 * 1024 * 1024,
	})
	router.SetupRoutes(app, h, cfg)

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Print("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Print(err)
	}
}

func openBackend(ctx context.Context, cfg *config.Config) (database.Backend, func(), error) {
	if cfg.DBDriver == config.DriverMemory {
		log.Print("database: using the in-memory store, data is lost on restart")
		return database.NewMemory(), func() {}, nil
	}

	if cfg.RunMigrations {
		migrationURL, err := cfg.MigrationURL()
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(migrationURL); err != nil {
			return nil, nil, err
		}
	}

	db, err := database.Connect(ctx, cfg.MongoConnString, cfg.MongoDatabase)
	if err != nil {
		return nil, nil, err
	}
	return db, func() {
		if err := db.Close(context.Background()); err != nil {
			log.Printf("database: close: %v", err)
		}
	}, nil
}

func openBlobs(cfg *config.Config) (storage.Blobs, error) {
	if cfg.StorageDriver == config.StorageSupabase {
		return storage.NewSupabase(cfg.SupabaseURL, cfg.SupabaseKey, cfg.BucketName), nil
	}
	return storage.NewLocal(cfg.UploadDir, cfg.PublicBaseURL)
}
