// Package config loads the Mudra service configuration from a JSON file
// with sensible defaults for every field.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Camera   CameraConfig   `json:"camera"`
	Detector DetectorConfig `json:"detector"`
	Models   ModelsConfig   `json:"models"`
	Redis    RedisConfig    `json:"redis"`
	Plugins  PluginsConfig  `json:"plugins"`
	DBPath   string         `json:"db_path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr      string `json:"addr"`
	StaticDir string `json:"static_dir"`
}

// CameraConfig holds camera capture settings.
type CameraConfig struct {
	DeviceID     int     `json:"device_id"`
	MotionThresh float64 `json:"motion_threshold"`
}

// DetectorConfig holds hand detector tuning.
type DetectorConfig struct {
	MaxHands        int     `json:"max_hands"`
	MinConfidence   float64 `json:"min_detection_confidence"`
	MinTrackingConf float64 `json:"min_tracking_confidence"`
	StaticImageMode bool    `json:"use_static_image_mode"`
}

// ModelsConfig holds classifier weight and label file locations.
type ModelsConfig struct {
	ShapeWeights  string `json:"shape_weights"`
	MotionWeights string `json:"motion_weights"`
	ShapeLabels   string `json:"shape_labels"`
	MotionLabels  string `json:"motion_labels"`
}

// RedisConfig holds settings for the optional result publisher.
type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	Prefix   string `json:"prefix"`
}

// PluginsConfig holds action plugin settings.
type PluginsConfig struct {
	Dir       string `json:"dir"`
	TimeoutMs int    `json:"timeout_ms"`
}

// Default returns the configuration used when no config file exists.
// Paths are rooted at ~/.mudra.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".mudra")

	return Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Camera: CameraConfig{
			DeviceID:     0,
			MotionThresh: 1.0,
		},
		Detector: DetectorConfig{
			MaxHands:        2,
			MinConfidence:   0.7,
			MinTrackingConf: 0.5,
		},
		Models: ModelsConfig{
			ShapeWeights:  filepath.Join(base, "models", "shape_classifier.json"),
			MotionWeights: filepath.Join(base, "models", "motion_classifier.json"),
			ShapeLabels:   filepath.Join(base, "models", "shape_labels.csv"),
			MotionLabels:  filepath.Join(base, "models", "motion_labels.csv"),
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
			Prefix:  "mudra",
		},
		Plugins: PluginsConfig{
			Dir:       filepath.Join(base, "plugins"),
			TimeoutMs: 5000,
		},
		DBPath: filepath.Join(base, "mudra.db"),
	}
}

// Load reads the configuration from path, filling unset fields from
// Default and then overlaying MUDRA_* environment variables. A missing
// file is not an error: defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Plugins.TimeoutMs <= 0 {
		cfg.Plugins.TimeoutMs = 5000
	}
	if cfg.Camera.MotionThresh <= 0 {
		cfg.Camera.MotionThresh = 1.0
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overlays environment variables on top of the file values.
// Deployment settings that differ per host win over the shared file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("MUDRA_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("MUDRA_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("MUDRA_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
		cfg.Redis.Enabled = true
	}
	if v := os.Getenv("MUDRA_PLUGIN_DIR"); v != "" {
		cfg.Plugins.Dir = v
	}
}

// Save writes the configuration to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultPath returns the default config file location (~/.mudra/config.json).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(home, ".mudra", "config.json")
}
