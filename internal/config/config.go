package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// Config holds the server configuration loaded from YAML.
type Config struct {
	Port          string `yaml:"port"`
	DBPath        string `yaml:"db_path"`
	UploadDir     string `yaml:"upload_dir"`
	ThumbnailDir  string `yaml:"thumbnail_dir"`
	SessionSecret string `yaml:"session_secret"`
	AdminPassword string `yaml:"admin_password"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Port:          "8080",
		DBPath:        "gallery.db",
		UploadDir:     "static/uploads",
		ThumbnailDir:  "static/thumbnails",
		SessionSecret: "change-me-in-production",
		AdminPassword: "admin123",
	}
}

// Load reads configuration from filename. Missing fields fall back to
// defaults so a partial config file is still usable.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
