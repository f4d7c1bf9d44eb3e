package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sdshc/tracker-backend/internal/logger"
	"github.com/sdshc/tracker-backend/internal/utils"
)

type Config struct {
	ListenAddr   string   `yaml:"listen_addr"`
	SqlitePath   string   `yaml:"sqlite_path"`
	AccessKey    string   `yaml:"access_key"`
	LogMode      string   `yaml:"log_mode"`
	AllowOrigins []string `yaml:"allow_origins"`
	ProjectName  string   `yaml:"project_name"`
	Sponsor      string   `yaml:"sponsor"`
	DefaultState string   `yaml:"default_state"`
	SourceLabel  string   `yaml:"source_label"`
}

func defaultConfig() Config {
	return Config{
		ListenAddr: ":8080",
		SqlitePath: "tracker.db",
		LogMode:    "development",
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		ProjectName:  "Soil Health Improvement and Planning Project",
		Sponsor:      "South Dakota Soil Health Coalition",
		DefaultState: "SD",
		SourceLabel:  "Excel (Cost-share History)",
	}
}

// LoadConfig reads an optional YAML file and then applies env overrides on
// top, so a bare binary still starts with sensible defaults.
func LoadConfig(path string, log *logger.Logger) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = utils.GetEnv("TRACKER_CONFIG", "config.yaml", log)
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		log.Info("Loaded config file", "path", path)
	case os.IsNotExist(err):
		log.Debug("No config file, using defaults", "path", path)
	default:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.ListenAddr = utils.GetEnv("LISTEN_ADDR", cfg.ListenAddr, log)
	cfg.SqlitePath = utils.GetEnv("SQLITE_PATH", cfg.SqlitePath, log)
	cfg.AccessKey = utils.GetEnv("ACCESS_KEY", cfg.AccessKey, nil)
	cfg.LogMode = utils.GetEnv("LOG_MODE", cfg.LogMode, log)
	cfg.ProjectName = utils.GetEnv("PROJECT_NAME", cfg.ProjectName, log)
	cfg.Sponsor = utils.GetEnv("PROJECT_SPONSOR", cfg.Sponsor, log)
	cfg.DefaultState = utils.GetEnv("DEFAULT_STATE", cfg.DefaultState, log)
	return cfg, nil
}
