package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultStudentPhotosSubDir = "student_photos"
	DefaultGroupPhotosSubDir   = "group_photos"
)

const (
	defaultPhotoQueueSize  = 100
	defaultNumPhotoWorkers = 2

	// LBPH distance cutoff; lower is stricter
	defaultConfidenceThreshold = 70.0

	defaultDetectScaleFactor = 1.1
	defaultDetectNeighbors   = 5
	defaultDetectMinFaceSize = 30
)

type Config struct {
	// database path
	DatabasePath string

	// photo storage configuration
	MediaStoragePath  string // primary root for stored photos
	StudentPhotosPath string // full-calculated path for reference photos
	GroupPhotosPath   string // full-calculated path for group photos

	// face detection settings
	CascadePath       string // Haar cascade XML for the face locator
	DetectScaleFactor float64
	DetectNeighbors   int
	DetectMinFaceSize int

	// recognition settings
	ConfidenceThreshold float64

	// worker settings
	PhotoQueueSize  int
	NumPhotoWorkers int

	// bcrypt hash of the shared actor bearer token; empty disables the check
	ActorTokenHash string
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

func getEnvFloatOrDefault(envVar string, defaultVal float64) float64 {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %g. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "attendance.db")

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	studentSubDir := getEnvOrDefault("STUDENT_PHOTOS_SUBDIR", DefaultStudentPhotosSubDir)
	groupSubDir := getEnvOrDefault("GROUP_PHOTOS_SUBDIR", DefaultGroupPhotosSubDir)

	cfg := Config{
		DatabasePath:        dbPath,
		MediaStoragePath:    absMediaStorage,
		StudentPhotosPath:   filepath.Join(absMediaStorage, studentSubDir),
		GroupPhotosPath:     filepath.Join(absMediaStorage, groupSubDir),
		CascadePath:         getEnvOrDefault("FACE_CASCADE_PATH", "./models/haarcascade_frontalface_default.xml"),
		DetectScaleFactor:   getEnvFloatOrDefault("DETECT_SCALE_FACTOR", defaultDetectScaleFactor),
		DetectNeighbors:     getEnvIntOrDefault("DETECT_MIN_NEIGHBORS", defaultDetectNeighbors),
		DetectMinFaceSize:   getEnvIntOrDefault("DETECT_MIN_FACE_SIZE", defaultDetectMinFaceSize),
		ConfidenceThreshold: getEnvFloatOrDefault("CONFIDENCE_THRESHOLD", defaultConfidenceThreshold),
		PhotoQueueSize:      getEnvIntOrDefault("PHOTO_QUEUE_SIZE", defaultPhotoQueueSize),
		NumPhotoWorkers:     getEnvIntOrDefault("NUM_PHOTO_WORKERS", defaultNumPhotoWorkers),
		ActorTokenHash:      os.Getenv("ACTOR_TOKEN_HASH"),
	}

	return cfg, nil
}
