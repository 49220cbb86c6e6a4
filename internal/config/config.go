package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Where the dashboard snapshot HTML is read from each cycle.
	SnapshotPath string `yaml:"snapshot_path"`
	// "agent" for the agent-status grid, "workitem" for the task table.
	Mode string `yaml:"mode"`

	SchedulePath string `yaml:"schedule_path"`
	DBPath       string `yaml:"db_path"`
	ExportDir    string `yaml:"export_dir"`

	LogPath      string `yaml:"log_path"`
	LogMaxSizeMB int    `yaml:"log_max_size_mb"`

	// Six-field cron expression (seconds first) for the periodic refresh.
	RefreshSchedule string `yaml:"refresh_schedule"`
	DebounceMillis  int    `yaml:"debounce_ms"`
	WatchMillis     int    `yaml:"watch_ms"`

	Timezone string         `yaml:"timezone"`
	Location *time.Location `yaml:"-"`

	Thresholds Thresholds  `yaml:"thresholds"`
	Alerts     AlertConfig `yaml:"alerts"`
}

// AlertConfig drives the workitem domain: per-bucket age floors in minutes
// plus the enabled buckets of the two independent alert boxes.
type AlertConfig struct {
	CarrierDriverMinutes  int      `yaml:"carrier_driver_minutes"`
	CriticalOthersMinutes int      `yaml:"critical_others_minutes"`
	OthersMinutes         int      `yaml:"others_minutes"`
	Box1Buckets           []string `yaml:"box1_buckets"`
	Box2Buckets           []string `yaml:"box2_buckets"`
}

func LoadConfig() Config {
	var cfg Config

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.SnapshotPath, "SNAPSHOT_PATH")
	envOverride(&cfg.Mode, "MONITOR_MODE")
	envOverride(&cfg.SchedulePath, "SCHEDULE_PATH")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.ExportDir, "EXPORT_DIR")
	envOverride(&cfg.LogPath, "LOG_PATH")
	envOverrideInt(&cfg.LogMaxSizeMB, "LOG_MAX_SIZE_MB")
	envOverride(&cfg.RefreshSchedule, "REFRESH_SCHEDULE")
	envOverrideInt(&cfg.DebounceMillis, "DEBOUNCE_MS")
	envOverrideInt(&cfg.WatchMillis, "WATCH_MS")
	envOverride(&cfg.Timezone, "TIMEZONE")

	// Defaults
	if cfg.Mode == "" {
		cfg.Mode = "agent"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./connectvision.db"
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "./exports"
	}
	if cfg.LogMaxSizeMB == 0 {
		cfg.LogMaxSizeMB = 10
	}
	if cfg.RefreshSchedule == "" {
		cfg.RefreshSchedule = "*/5 * * * * *"
	}
	if cfg.DebounceMillis == 0 {
		cfg.DebounceMillis = 500
	}
	if cfg.WatchMillis == 0 {
		cfg.WatchMillis = 1000
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
	cfg.Thresholds.applyDefaults()
	cfg.Alerts.applyDefaults()

	if cfg.SnapshotPath == "" {
		log.Fatalf("Required config 'snapshot_path' is not set (via config.yaml or env var)")
	}
	if cfg.Mode != "agent" && cfg.Mode != "workitem" {
		log.Fatalf("mode must be 'agent' or 'workitem', got '%s'", cfg.Mode)
	}

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	if err := cfg.Thresholds.Validate(); err != nil {
		log.Fatalf("invalid thresholds: %v", err)
	}
	if err := cfg.Alerts.Validate(); err != nil {
		log.Fatalf("invalid alerts: %v", err)
	}

	return cfg
}

func (a *AlertConfig) applyDefaults() {
	if a.CarrierDriverMinutes == 0 {
		a.CarrierDriverMinutes = 3
	}
	if a.CriticalOthersMinutes == 0 {
		a.CriticalOthersMinutes = 8
	}
	if a.OthersMinutes == 0 {
		a.OthersMinutes = 20
	}
	all := []string{"CRITICAL_CARRIER_DRIVER", "CRITICAL_OTHERS", "HIGH", "MEDIUM", "LOW"}
	if a.Box1Buckets == nil {
		a.Box1Buckets = append([]string(nil), all...)
	}
	if a.Box2Buckets == nil {
		a.Box2Buckets = append([]string(nil), all...)
	}
}

func (a AlertConfig) Validate() error {
	if a.CarrierDriverMinutes < 0 || a.CriticalOthersMinutes < 0 || a.OthersMinutes < 0 {
		return fmt.Errorf("alert age floors must be >= 0")
	}
	known := map[string]bool{
		"CRITICAL_CARRIER_DRIVER": true, "CRITICAL_OTHERS": true,
		"HIGH": true, "MEDIUM": true, "LOW": true,
	}
	for _, b := range append(append([]string(nil), a.Box1Buckets...), a.Box2Buckets...) {
		if !known[b] {
			return fmt.Errorf("unknown severity bucket '%s'", b)
		}
	}
	return nil
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
