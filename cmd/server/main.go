package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"

	"github.com/rmiras/personal-site-api/internal/config"
	"github.com/rmiras/personal-site-api/internal/database"
	"github.com/rmiras/personal-site-api/internal/handler"
	"github.com/rmiras/personal-site-api/internal/repository"
	"github.com/rmiras/personal-site-api/internal/router"
	"github.com/rmiras/personal-site-api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var store storage.BlobStore
	switch cfg.StorageDriver {
	case "s3":
		store, err = storage.NewS3Store(context.Background(),
			cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL)
	default:
		store, err = storage.NewDiskStore(cfg.MediaRoot, cfg.MediaBaseURL)
	}
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	users := repository.NewUserRepo(db)
	authHandler := handler.NewAuthHandler(*cfg, users,
		repository.NewTokenRepo(db))
	resourceHandler := handler.NewResourceHandler(
		repository.NewTagRepo(db),
		repository.NewPictureRepo(db),
		repository.NewBlogRepo(db),
		repository.NewSlideshowRepo(db),
		repository.NewProjectRepo(db),
		store)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret, users)
	router.RegisterResources(e, resourceHandler, cfg.JWTSecret, users)
	if cfg.StorageDriver == "disk" {
		// serve uploaded media straight from the media root in dev;
		// a fronting proxy should take this over in production
		e.Static(cfg.MediaBaseURL, cfg.MediaRoot)
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
