// config.go: defines the settings struct and the functions to load settings
// from config files, environment and defaults.
package conf

import (
	"embed"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yaml
var configFiles embed.FS

// MainSettings contains node identity and logging settings.
type MainSettings struct {
	Name     string // node name, used to identify the source of detections
	TimeZone string // IANA timezone name used for day boundaries and reports
	Log      struct {
		Enabled bool   // true to enable main log file
		Path    string // path to main log file
	}
}

// OutputSettings contains database output settings.
type OutputSettings struct {
	SQLite struct {
		Enabled bool   // true to enable sqlite output
		Path    string // path to sqlite database
	}
	MySQL struct {
		Enabled  bool   // true to enable mysql output
		Username string // mysql database username
		Password string // mysql database user password
		Database string // mysql database name
		Host     string // mysql database host
		Port     string // mysql database port
	}
}

// ListenerSettings contains settings for the realtime detection loop.
type ListenerSettings struct {
	Enabled     bool    // true to run the capture/detection loop
	Species     string  // species label recorded when the classifier omits one
	MinInterval float64 // minimum seconds between accepted detections
	ClipPath    string  // path to saved audio clips, recorded on events
}

// MQTTSettings contains Home Assistant MQTT publishing settings.
type MQTTSettings struct {
	Enabled  bool   // true to enable MQTT publishing of detections
	Broker   string // MQTT broker URL
	Topic    string // MQTT topic to publish detections to
	Username string // MQTT broker username
	Password string // MQTT broker password
	Retain   bool   // true to retain messages at the broker
}

// WebServerSettings contains HTTP API settings.
type WebServerSettings struct {
	Enabled bool   // true to enable the HTTP API
	Port    string // port to listen on
	Cache   struct {
		Enabled bool // true to cache stats query responses
		TTL     int  // cache TTL in seconds
	}
}

// ReportSettings contains offline report generator settings.
type ReportSettings struct {
	OutputPath string // directory where markdown reports are written
}

// Settings contains all runtime settings for the application.
type Settings struct {
	Debug bool // true to enable debug logging

	Main      MainSettings
	Output    OutputSettings
	Listener  ListenerSettings
	MQTT      MQTTSettings
	WebServer WebServerSettings
	Report    ReportSettings
}

var (
	settingsInstance *Settings
	once             sync.Once
	settingsMutex    sync.RWMutex
)

// Load reads the configuration into the package singleton and returns it.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with the config file locations and defaults.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("fatal error reading config file: %w", err)
		}
		// No config file found, create one from the embedded default.
		if err := createDefaultConfig(configPaths[0]); err != nil {
			return err
		}
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("fatal error reading created config file: %w", err)
		}
	}

	return nil
}

// createDefaultConfig writes the embedded default config.yaml into configDir.
func createDefaultConfig(configDir string) error {
	defaultConfig, err := configFiles.ReadFile("config.yaml")
	if err != nil {
		return fmt.Errorf("error reading embedded default config: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("error creating config directory %s: %w", configDir, err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, defaultConfig, 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	log.Println("Created default config file at:", configPath)
	return nil
}

// GetDefaultConfigPaths returns the list of directories searched for config.yaml,
// most specific first.
func GetDefaultConfigPaths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error fetching user home directory: %w", err)
	}

	return []string{
		filepath.Join(homeDir, ".config", "dovewatch"),
		".",
	}, nil
}

// Setting returns the current settings instance, loading it if necessary.
func Setting() *Settings {
	once.Do(func() {
		if settingsInstance == nil {
			if _, err := Load(); err != nil {
				log.Fatalf("error loading settings: %v", err)
			}
		}
	})

	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// TimeLocation resolves the configured reporting timezone. An empty setting
// falls back to the host's local timezone.
func (s *Settings) TimeLocation() (*time.Location, error) {
	if s.Main.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Main.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", s.Main.TimeZone, err)
	}
	return loc, nil
}
