package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	DefaultSubmissionsSubDir = "submissions"
	DefaultThumbnailsSubDir  = "thumbnails"
	DefaultBadgesSubDir      = "badge_icons"
)

const (
	defaultPhotoQueueSize   = 200
	defaultNumPhotoWorkers  = 4
	defaultThumbnailMaxSize = 300

	defaultLeaderboardWindowMinutes = 60
	defaultLeaderboardLimit         = 3
)

type Config struct {
	// HTTP listen address
	ListenAddr string

	// database path
	DatabasePath string

	// media storage configuration
	MediaStoragePath  string // primary root for uploaded and generated assets
	SubmissionsSubDir string // subdirectory for original contest photos
	ThumbnailsSubDir  string // subdirectory for generated thumbnails
	BadgesSubDir      string // subdirectory for badge icons

	// thumbnail generation settings
	ThumbnailMaxSize int

	// worker settings
	PhotoQueueSize  int
	NumPhotoWorkers int

	// leaderboard settings
	LeaderboardWindow time.Duration
	LeaderboardLimit  int

	// staff auth
	JWTSecret string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	listenAddr := getEnvOrDefault("LISTEN_ADDR", ":8080")

	dbPath := getEnvOrDefault("DATABASE_PATH", "museum.db")

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	submissionsSubDir := getEnvOrDefault("SUBMISSIONS_SUBDIR", DefaultSubmissionsSubDir)
	thumbSubDir := getEnvOrDefault("THUMBNAILS_SUBDIR", DefaultThumbnailsSubDir)
	badgesSubDir := getEnvOrDefault("BADGES_SUBDIR", DefaultBadgesSubDir)

	thumbMaxSize := getEnvIntOrDefault("THUMBNAIL_MAX_SIZE", defaultThumbnailMaxSize)

	queueSize := getEnvIntOrDefault("PHOTO_QUEUE_SIZE", defaultPhotoQueueSize)
	numWorkers := getEnvIntOrDefault("NUM_PHOTO_WORKERS", defaultNumPhotoWorkers)

	windowMinutes := getEnvIntOrDefault("LEADERBOARD_WINDOW_MINUTES", defaultLeaderboardWindowMinutes)
	leaderboardLimit := getEnvIntOrDefault("LEADERBOARD_LIMIT", defaultLeaderboardLimit)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET environment variable must be set")
	}

	cfg := Config{
		ListenAddr:        listenAddr,
		DatabasePath:      dbPath,
		MediaStoragePath:  absMediaStorage,
		SubmissionsSubDir: submissionsSubDir,
		ThumbnailsSubDir:  thumbSubDir,
		BadgesSubDir:      badgesSubDir,
		ThumbnailMaxSize:  thumbMaxSize,
		PhotoQueueSize:    queueSize,
		NumPhotoWorkers:   numWorkers,
		LeaderboardWindow: time.Duration(windowMinutes) * time.Minute,
		LeaderboardLimit:  leaderboardLimit,
		JWTSecret:         jwtSecret,
	}

	return cfg, nil
}
