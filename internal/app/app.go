package app

import (
	"log"

	"fileshare/internal/config"
	"fileshare/internal/handler"
	"fileshare/internal/middleware"
	"fileshare/internal/pkg/auth"
	"fileshare/internal/repository"
	"fileshare/internal/service"
	"fileshare/internal/ws"
)

func Run(cfg *config.Config) {
	var (
		userRepo repository.UserRepository
		fileRepo repository.FileRepository
		storage  repository.StorageRepository
		shares   repository.ShareCacheRepository
		sessions repository.SessionCacheRepository
	)

	if cfg.DemoMode {
		log.Println("running in demo mode: in-memory backends")
		userRepo = repository.NewMemoryUserRepository()
		fileRepo = repository.NewMemoryFileRepository()
		storage = repository.NewMemoryStorageRepository()
	} else {
		db, err := repository.NewDB(cfg.DSN())
		if err != nil {
			log.Fatal(err)
		}
		userRepo = repository.NewUserRepository(db)
		fileRepo = repository.NewFileRepository(db)

		storage, err = repository.NewS3StorageRepository(cfg)
		if err != nil {
			log.Fatal(err)
		}

		if cfg.RedisAddr != "" {
			rdb, err := repository.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
			if err != nil {
				log.Fatal(err)
			}
			shares = repository.NewShareCacheRepository(rdb)
			sessions = repository.NewSessionCacheRepository(rdb)
		}
	}

	authn := auth.NewAuthenticator(cfg.JWTKey)
	userService := service.NewUserService(userRepo, sessions, authn)

	hub := ws.NewHub()
	uploads := service.NewUploadManager(fileRepo, storage, ws.NewProgressPublisher(hub))
	fileService := service.NewFileService(fileRepo, storage, shares, cfg.BaseURL)

	if cfg.DemoMode {
		seedDemoUser(userService)
	}

	authMw := middleware.NewAuthMiddleware(authn, userService, sessions)
	userHandler := handler.NewUserHandler(userService)
	fileHandler := handler.NewFileHandler(fileService, uploads)
	wsHandler := handler.NewWSHandler(hub, authn)

	server := NewServer(userHandler, fileHandler, wsHandler, authMw)
	server.Run(cfg.ServerPort)
}

func seedDemoUser(users service.UserService) {
	if _, err := users.Register("Demo User", "user@example.com", "password"); err != nil {
		log.Printf("failed to seed demo user: %v", err)
	}
}
