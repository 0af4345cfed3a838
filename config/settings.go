package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server   ServerSettings   `json:"server"`
	TMDB     TMDBSettings     `json:"tmdb"`
	Firebase FirebaseSettings `json:"firebase"`
	Storage  StorageSettings  `json:"storage"`
	History  HistorySettings  `json:"history"`
	Log      LogConfig        `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// TMDBSettings configures the upstream movie catalog API.
type TMDBSettings struct {
	APIKey   string `json:"apiKey"`
	Language string `json:"language"`
}

// FirebaseSettings identifies the project hosting the identity provider and
// the per-user wishlist document collections.
type FirebaseSettings struct {
	ProjectID string `json:"projectId"`
	WebAPIKey string `json:"webApiKey"`
}

// StorageSettings locates device-local persistence (recent searches).
type StorageSettings struct {
	Directory string `json:"directory"`
}

// HistorySettings bounds the recent-search list.
type HistorySettings struct {
	Limit int `json:"limit"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	File       string `json:"file"`
	Level      string `json:"level"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

// DefaultSettings returns the configuration written on first run.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Host: "0.0.0.0",
			Port: 8484,
		},
		TMDB: TMDBSettings{
			Language: "en-US",
		},
		Storage: StorageSettings{
			Directory: "cache",
		},
		History: HistorySettings{
			Limit: 8,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSize:    20,
			MaxAge:     14,
			MaxBackups: 3,
		},
	}
}

// envOverrides are applied on top of the settings file. They let deployments
// keep API keys out of the JSON on disk.
type envOverrides struct {
	TMDBAPIKey        string `envconfig:"TMDB_API_KEY"`
	FirebaseProjectID string `envconfig:"FIREBASE_PROJECT_ID"`
	FirebaseWebAPIKey string `envconfig:"FIREBASE_WEB_API_KEY"`
	Port              int    `envconfig:"PORT"`
	StorageDir        string `envconfig:"STORAGE_DIR"`
}

func applyEnv(s *Settings) error {
	var ov envOverrides
	if err := envconfig.Process("wishflix", &ov); err != nil {
		return err
	}
	if strings.TrimSpace(ov.TMDBAPIKey) != "" {
		s.TMDB.APIKey = strings.TrimSpace(ov.TMDBAPIKey)
	}
	if strings.TrimSpace(ov.FirebaseProjectID) != "" {
		s.Firebase.ProjectID = strings.TrimSpace(ov.FirebaseProjectID)
	}
	if strings.TrimSpace(ov.FirebaseWebAPIKey) != "" {
		s.Firebase.WebAPIKey = strings.TrimSpace(ov.FirebaseWebAPIKey)
	}
	if ov.Port > 0 {
		s.Server.Port = ov.Port
	}
	if strings.TrimSpace(ov.StorageDir) != "" {
		s.Storage.Directory = ov.StorageDir
	}
	return nil
}

// Manager loads and saves the settings file.
type Manager struct {
	path string
}

func NewManager(configPath string) *Manager {
	return &Manager{path: configPath}
}

// EnsureDir ensures the parent directory exists.
func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Load reads settings from disk, creating defaults if the file is missing,
// then applies WISHFLIX_* environment overrides.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}

	var settings Settings
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		settings = DefaultSettings()
		if err := m.Save(settings); err != nil {
			return Settings{}, err
		}
	} else {
		f, err := os.Open(m.path)
		if err != nil {
			return Settings{}, err
		}
		defer f.Close()

		if err := json.NewDecoder(f).Decode(&settings); err != nil {
			return Settings{}, err
		}
	}

	// Backfill fields older config files predate.
	if settings.Server.Port == 0 {
		settings.Server.Port = DefaultSettings().Server.Port
	}
	if strings.TrimSpace(settings.TMDB.Language) == "" {
		settings.TMDB.Language = DefaultSettings().TMDB.Language
	}
	if strings.TrimSpace(settings.Storage.Directory) == "" {
		settings.Storage.Directory = DefaultSettings().Storage.Directory
	}
	if settings.History.Limit <= 0 {
		settings.History.Limit = DefaultSettings().History.Limit
	}

	if err := applyEnv(&settings); err != nil {
		return Settings{}, err
	}

	return settings, nil
}

// Save writes the provided settings to disk atomically.
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.EnsureDir(); err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, m.path)
}
