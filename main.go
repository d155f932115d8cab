package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/gemsmart/museumbackend/clock"
	"github.com/gemsmart/museumbackend/config"
	"github.com/gemsmart/museumbackend/database"
	"github.com/gemsmart/museumbackend/handlers"
	"github.com/gemsmart/museumbackend/media"
	"github.com/gemsmart/museumbackend/permissions"
	"github.com/gemsmart/museumbackend/realtime"
	"github.com/gemsmart/museumbackend/repository"
	"github.com/gemsmart/museumbackend/services"
	"github.com/gemsmart/museumbackend/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	dbDir := filepath.Dir(cfg.DatabasePath)
	log.Printf("Ensuring database directory exists: %s", dbDir)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("FATAL: Failed to create database directory %s: %v", dbDir, err)
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database schema: %v", err)
	}

	sysClock := clock.New()

	visitorRepo := repository.NewGormVisitorRepository(db)
	roomRepo := repository.NewGormRoomRepository(db)
	photoRepo := repository.NewGormPhotoRepository(db)
	badgeRepo := repository.NewGormBadgeRepository(db)
	staffRepo := repository.NewGormStaffRepository(db)

	if err := database.SeedDefaults(roomRepo, badgeRepo); err != nil {
		log.Fatalf("FATAL: Failed to seed default data: %v", err)
	}

	mediaSubDirs := map[media.AssetType]string{
		media.AssetTypeSubmission: cfg.SubmissionsSubDir,
		media.AssetTypeThumbnail:  cfg.ThumbnailsSubDir,
		media.AssetTypeBadge:      cfg.BadgesSubDir,
	}
	mediaStore, err := media.NewLocalStorage(cfg.MediaStoragePath, mediaSubDirs)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize media store: %v", err)
	}
	for assetType := range mediaSubDirs {
		if _, err := mediaStore.EnsureDir(assetType); err != nil {
			log.Fatalf("FATAL: Failed to create media directory for %s: %v", assetType, err)
		}
	}
	mediaProcessor := media.NewProcessor(mediaStore)

	hub := realtime.NewHub()
	go hub.Run()

	identityService := services.NewIdentityService(visitorRepo, sysClock)
	gateService := services.NewGateService(visitorRepo)
	leaderboardService := services.NewLeaderboardService(photoRepo, roomRepo, sysClock)
	winnerService := services.NewWinnerService(leaderboardService, photoRepo, badgeRepo, sysClock)
	scorer := services.NewRandomScorer()

	log.Printf("Initializing photo processor worker pool (Workers: %d, Queue Size: %d)...", cfg.NumPhotoWorkers, cfg.PhotoQueueSize)
	photoProcessor := workers.NewPhotoProcessor(photoRepo, mediaProcessor, scorer, hub, cfg.ThumbnailMaxSize, cfg.PhotoQueueSize, cfg.NumPhotoWorkers)
	defer photoProcessor.Stop()

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing media in: %s", cfg.MediaStoragePath)
	log.Printf("Thumbnail max size (longest side): %dpx", cfg.ThumbnailMaxSize)
	log.Printf("Leaderboard window: %s, limit: %d", cfg.LeaderboardWindow, cfg.LeaderboardLimit)

	visitorHandler := handlers.NewVisitorHandler(identityService, badgeRepo, photoRepo)
	gateHandler := handlers.NewGateHandler(gateService)
	photoHandler := handlers.NewPhotoHandler(photoRepo, visitorRepo, roomRepo, mediaStore, photoProcessor, hub, sysClock)
	roomHandler := handlers.NewRoomHandler(roomRepo, photoRepo, leaderboardService, cfg.LeaderboardWindow, cfg.LeaderboardLimit)
	badgeHandler := handlers.NewBadgeHandler(badgeRepo, visitorRepo, mediaProcessor, sysClock)
	winnerHandler := handlers.NewWinnerHandler(winnerService, hub, cfg.LeaderboardWindow)
	authHandler := handlers.NewAuthHandler(staffRepo, cfg.JWTSecret)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/visitors", func(r chi.Router) {
			r.Post("/", visitorHandler.CreateVisitor)
			r.Post("/register", visitorHandler.RegisterOrLogin)
			r.With(staffAuth(staffRepo, cfg.JWTSecret, permissions.VisitorList)).Get("/", visitorHandler.ListVisitors)
			r.Route("/{visitorID}", func(r chi.Router) {
				r.Get("/", visitorHandler.GetVisitor)
				r.Post("/credentials/virtual", visitorHandler.RegisterVirtualCredential)
				r.Post("/credentials/physical", visitorHandler.LinkPhysicalCard)
				r.Get("/badges", visitorHandler.ListVisitorBadges)
				r.Get("/photos", visitorHandler.ListVisitorSubmissions)
			})
		})

		r.Post("/gate/scan", gateHandler.Scan)

		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", roomHandler.ListRooms)
			r.With(staffAuth(staffRepo, cfg.JWTSecret, permissions.RoomCreate)).Post("/", roomHandler.CreateRoom)
			r.Route("/{roomID}", func(r chi.Router) {
				r.Get("/", roomHandler.GetRoom)
				r.Get("/dashboard", roomHandler.Dashboard)
				r.Get("/photos", roomHandler.ListRoomPhotos)
				r.Post("/photos", photoHandler.Upload)
				r.With(staffAuth(staffRepo, cfg.JWTSecret, permissions.WinnerMark)).Post("/winner", winnerHandler.MarkWinner)
			})
		})

		r.Get("/photos/{submissionID}", photoHandler.GetSubmission)

		r.Route("/badges", func(r chi.Router) {
			r.Get("/", badgeHandler.ListBadges)
			r.With(staffAuth(staffRepo, cfg.JWTSecret, permissions.BadgeManage)).Post("/", badgeHandler.CreateBadge)
			r.With(staffAuth(staffRepo, cfg.JWTSecret, permissions.BadgeAward)).Post("/{badgeID}/award", badgeHandler.Award)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.With(staffAuth(staffRepo, cfg.JWTSecret, permissions.StaffManage)).Post("/staff", authHandler.CreateStaff)
			r.With(staffAuth(staffRepo, cfg.JWTSecret, "")).Get("/me", authHandler.CurrentStaff)
			r.Get("/permissions", authHandler.ListPermissions)
		})

		r.Get(fmt.Sprintf("/%s/*", cfg.ThumbnailsSubDir), handlers.AssetServer(cfg.MediaStoragePath, cfg.ThumbnailsSubDir))
		log.Printf("Registered thumbnail server at /%s/*", cfg.ThumbnailsSubDir)

		r.Get(fmt.Sprintf("/%s/*", cfg.SubmissionsSubDir), handlers.AssetServer(cfg.MediaStoragePath, cfg.SubmissionsSubDir))
		log.Printf("Registered submission server at /%s/*", cfg.SubmissionsSubDir)

		r.Get(fmt.Sprintf("/%s/*", cfg.BadgesSubDir), handlers.AssetServer(cfg.MediaStoragePath, cfg.BadgesSubDir))
		log.Printf("Registered badge icon server at /%s/*", cfg.BadgesSubDir)
	})

	r.Get("/ws", hub.ServeWS)
	r.Handle("/metrics", promhttp.Handler())

	fmt.Printf("Server starting on %s\n", cfg.ListenAddr)
	log.Printf("Server listening on %s", cfg.ListenAddr)
	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

// staffAuth chains JWT authentication with an optional permission check.
func staffAuth(staffRepo repository.StaffRepository, jwtSecret string, permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if permission != "" {
			next = handlers.RequirePermission(permission, next)
		}
		return handlers.AuthMiddleware(staffRepo, []byte(jwtSecret), next)
	}
}
