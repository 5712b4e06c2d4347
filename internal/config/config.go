package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Application
	Version     string
	Environment string
	Port        int
	LogLevel    string

	// Filesystem layout
	UploadsDir   string
	ResultsDir   string
	TemplatesDir string
	TempFrame    string // shared temp frame path, single streaming session at a time

	// Category lookup data (read-only, loaded at startup)
	MappingPath    string
	ClassNamesPath string

	// Detector model
	ModelPath       string
	ModelConfigPath string
	ModelInputSize  int

	// Annotation
	FontPath string
	FontSize float64

	// Inference
	ConfidenceThreshold float64
	JPEGQuality         int

	// Camera
	DefaultCameraSource string
	ProbeMaxIndex       int

	// NATS detection events (optional)
	NatsEnabled        bool
	NatsURL            string
	NatsSubject        string
	NatsConnectTimeout time.Duration
	NatsReconnectWait  time.Duration
	NatsMaxReconnects  int

	// Graceful Shutdown
	ShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found, using environment variables and defaults")
	} else {
		log.Info().Msg("Loaded configuration from .env file")
	}

	return &Config{
		// Application
		Version:     getEnv("VERSION", "1.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnvInt("PORT", 8000),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Filesystem layout
		UploadsDir:   getEnv("UPLOADS_DIR", "uploads"),
		ResultsDir:   getEnv("RESULTS_DIR", "results"),
		TemplatesDir: getEnv("TEMPLATES_DIR", "templates"),
		TempFrame:    getEnv("TEMP_FRAME_PATH", "temp_frame.jpg"),

		// Category lookup data
		MappingPath:    getEnv("CATEGORY_MAPPING_PATH", "garbage/category_mapping.json"),
		ClassNamesPath: getEnv("CLASS_NAMES_PATH", "garbage/train_classes.txt"),

		// Detector model
		ModelPath:       getEnv("MODEL_PATH", "garbage/small_class_model.onnx"),
		ModelConfigPath: getEnv("MODEL_CONFIG_PATH", ""),
		ModelInputSize:  getEnvInt("MODEL_INPUT_SIZE", 300),

		// Annotation
		FontPath: getEnv("FONT_PATH", "garbage/SimHei.ttf"),
		FontSize: getEnvFloat("FONT_SIZE", 11),

		// Inference
		ConfidenceThreshold: getEnvFloat("CONFIDENCE_THRESHOLD", 0.5),
		JPEGQuality:         getEnvInt("JPEG_QUALITY", 90),

		// Camera
		DefaultCameraSource: getEnv("DEFAULT_CAMERA_SOURCE", "0"),
		ProbeMaxIndex:       getEnvInt("CAMERA_PROBE_MAX_INDEX", 10),

		// NATS detection events
		NatsEnabled:        getEnvBool("NATS_ENABLED", false),
		NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		NatsSubject:        getEnv("NATS_SUBJECT", "detections"),
		NatsConnectTimeout: getEnvDuration("NATS_CONNECT_TIMEOUT", 10*time.Second),
		NatsReconnectWait:  getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		NatsMaxReconnects:  getEnvInt("NATS_MAX_RECONNECTS", -1), // -1 = unlimited

		// Graceful Shutdown
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
