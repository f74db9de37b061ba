package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"poachwatch/internal/dto"
)

type Config struct {
	Port                int
	Password            string
	LogDirectory        string
	Debug               bool
	ModelDirectory      string // Installation directory the model candidates are resolved against
	ModelCandidatesFile string
	ModelCache          bool // Keep the first loaded detector for later runs
	ModelCandidates     []dto.ModelCandidate
	ScanWorkers         int
	GeolocationURL      string
	GeolocationTimeout  time.Duration
	TwilioSID           string
	TwilioToken         string
	TwilioFrom          string
	TwilioServiceSID    string
	TargetPhone         string
}

// DefaultCandidates is the built-in model priority list: the trained
// classifier first, then the generic object detectors.
func DefaultCandidates() []dto.ModelCandidate {
	return []dto.ModelCandidate{
		{Name: "poachingdetectionVER7_original.onnx", Kind: dto.KindClassifier},
		{Name: "yolov8n.onnx", Kind: dto.KindObjectDetector, Format: dto.FormatYOLO},
		{
			Name:   "frozen_inference_graph.pb",
			Config: "ssd_mobilenet_v1_coco_2017_11_17.pbtxt",
			Kind:   dto.KindObjectDetector,
			Format: dto.FormatSSD,
		},
	}
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// .env is optional, the environment alone is enough
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnvAsInt("PORT", 8080),
		Password:            getEnv("PASSWORD", ""),
		LogDirectory:        getEnv("LOG_DIR", filepath.Join(".", "logs")),
		Debug:               getEnvAsBool("DEBUG", false),
		ModelDirectory:      getEnv("MODEL_DIR", "."),
		ModelCandidatesFile: getEnv("MODEL_CANDIDATES_FILE", ""),
		ModelCache:          getEnvAsBool("MODEL_CACHE", false),
		ScanWorkers:         getEnvAsInt("SCAN_WORKERS", 1),
		GeolocationURL:      getEnv("GEOLOCATION_URL", "http://ip-api.com/json/"),
		GeolocationTimeout:  time.Duration(getEnvAsInt("GEOLOCATION_TIMEOUT", 5)) * time.Second,
		TwilioSID:           os.Getenv("TWILIO_SID"),
		TwilioToken:         os.Getenv("TWILIO_TOKEN"),
		TwilioFrom:          os.Getenv("TWILIO_FROM"),
		TwilioServiceSID:    os.Getenv("TWILIO_SERVICE_SID"),
		TargetPhone:         os.Getenv("TARGET_PHONE"),
	}

	if cfg.ScanWorkers < 1 {
		cfg.ScanWorkers = 1
	}

	if cfg.ModelCandidatesFile == "" {
		cfg.ModelCandidates = DefaultCandidates()
		return cfg, nil
	}

	candidates, err := LoadCandidates(cfg.ModelCandidatesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load model candidates: %w", err)
	}
	cfg.ModelCandidates = candidates
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
