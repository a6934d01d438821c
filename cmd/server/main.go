package main

import (
	"context"
	"log"

	"github.com/hellodap/dap-backend/internal/config"
	"github.com/hellodap/dap-backend/internal/entity"
	"github.com/hellodap/dap-backend/internal/server"
	"github.com/hellodap/dap-backend/pkg/database"
	"github.com/hellodap/dap-backend/pkg/mailer"
	"github.com/hellodap/dap-backend/pkg/push"
	"github.com/hellodap/dap-backend/pkg/storage"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	deps := server.Deps{DB: db}

	// Optional infrastructure: each missing piece disables its feature,
	// never the whole server.
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		deps.RedisClient = redis.NewClient(opts)
		if err := deps.RedisClient.Ping(context.Background()).Err(); err != nil {
			log.Printf("redis unreachable, continuing without it: %v", err)
			deps.RedisClient = nil
		}
	}

	if cfg.MeiliMasterKey != "" {
		deps.MeiliClient = meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	} else {
		log.Println("MEILI_MASTER_KEY not set, event search disabled")
	}

	if cfg.CloudinaryCloudName != "" {
		imageStorage, err := storage.NewCloudinaryStorage()
		if err != nil {
			log.Fatalf("failed to initialize cloudinary storage: %v", err)
		}
		deps.Storage = imageStorage
	} else {
		log.Println("cloudinary not configured, image uploads disabled")
	}

	if cfg.ResendAPIKey != "" {
		m, err := mailer.NewResendMailer()
		if err != nil {
			log.Fatalf("failed to initialize mailer: %v", err)
		}
		deps.Mailer = m
	}

	if cfg.FirebaseCredentials != "" {
		sender, err := push.NewFCMSender(context.Background())
		if err != nil {
			log.Printf("push sender unavailable: %v", err)
		} else {
			deps.PushSender = sender
		}
	}

	srv := server.NewServer(cfg, deps)
	defer srv.Stop()

	if err := srv.Run(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Profile{},
		&entity.Event{},
		&entity.Participation{},
		&entity.EventComment{},
		&entity.Like{},
		&entity.Match{},
		&entity.Message{},
		&entity.Notification{},
		&entity.DeviceOnboarding{},
	)
}
