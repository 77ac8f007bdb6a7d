package storage

import (
	"errors"
	"fmt"
	"log"
	"os"

	"randomizer/internal/core/model"
	"randomizer/internal/ui/inspector"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

type yamlSettings struct {
	InitDelaySeconds   float64 `yaml:"init_delay_seconds"`
	IntervalMode       string  `yaml:"interval_mode"`
	IntervalSeconds    float64 `yaml:"interval_seconds"`
	MinIntervalSeconds float64 `yaml:"min_interval_seconds"`
	MaxIntervalSeconds float64 `yaml:"max_interval_seconds"`
	RedisAddr          string  `yaml:"redis_addr"`
	RedisChannel       string  `yaml:"redis_channel"`
}

// Store persists settings as a YAML document in the per-user data directory.
// A Store without a gdata manager keeps settings in memory only.
type Store struct {
	manager *gdata.Manager
}

// Open creates a Store for appName. When the data directory cannot be used
// the returned Store runs in memory-only mode and the error is returned
// alongside it.
func Open(appName string) (*Store, error) {
	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return &Store{}, fmt.Errorf("open data dir: %w", err)
	}
	return &Store{manager: manager}, nil
}

// NewStore wraps an existing gdata manager, which may be nil.
func NewStore(manager *gdata.Manager) *Store {
	return &Store{manager: manager}
}

// Load reads settings. Missing data yields default settings.
func (store *Store) Load() (inspector.Settings, error) {
	if store.manager == nil || !store.manager.ObjectPropExists(settingsObject, settingsProperty) {
		return inspector.DefaultSettings(), nil
	}

	rawData, err := store.manager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return inspector.DefaultSettings(), fmt.Errorf("read settings: %w", err)
	}
	settings, err := Decode(rawData)
	if err != nil {
		return inspector.DefaultSettings(), err
	}
	log.Printf("[Storage] settings loaded")
	return settings, nil
}

// Save writes settings. It is a no-op in memory-only mode.
func (store *Store) Save(settings inspector.Settings) error {
	if store.manager == nil {
		return nil
	}

	serialized, err := Encode(settings)
	if err != nil {
		return err
	}
	if err := store.manager.SaveObjectProp(settingsObject, settingsProperty, serialized); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	log.Printf("[Storage] settings saved")
	return nil
}

// LoadFile reads settings from a YAML file at path.
func LoadFile(path string) (inspector.Settings, error) {
	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return inspector.DefaultSettings(), fmt.Errorf("settings file %s: %w", path, err)
		}
		return inspector.DefaultSettings(), fmt.Errorf("read settings file: %w", err)
	}
	return Decode(rawData)
}

// Decode parses a YAML settings document. Keys absent from the document keep
// their default values.
func Decode(rawData []byte) (inspector.Settings, error) {
	defaults := inspector.DefaultSettings()
	fileData := toYaml(defaults)
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return defaults, fmt.Errorf("parse settings yaml: %w", err)
	}

	mode, err := model.ParseIntervalMode(fileData.IntervalMode)
	if err != nil {
		return defaults, err
	}

	settings := inspector.Settings{
		InitDelay:    fileData.InitDelaySeconds,
		Mode:         mode,
		Interval:     fileData.IntervalSeconds,
		MinInterval:  fileData.MinIntervalSeconds,
		MaxInterval:  fileData.MaxIntervalSeconds,
		RedisAddr:    fileData.RedisAddr,
		RedisChannel: fileData.RedisChannel,
	}
	if settings.RedisChannel == "" {
		settings.RedisChannel = defaults.RedisChannel
	}
	if err := settings.Validate(); err != nil {
		return defaults, err
	}
	return settings, nil
}

// Encode serializes settings to YAML.
func Encode(settings inspector.Settings) ([]byte, error) {
	serialized, err := yaml.Marshal(toYaml(settings))
	if err != nil {
		return nil, fmt.Errorf("marshal settings yaml: %w", err)
	}
	return serialized, nil
}

func toYaml(settings inspector.Settings) yamlSettings {
	return yamlSettings{
		InitDelaySeconds:   settings.InitDelay,
		IntervalMode:       string(settings.Mode),
		IntervalSeconds:    settings.Interval,
		MinIntervalSeconds: settings.MinInterval,
		MaxIntervalSeconds: settings.MaxInterval,
		RedisAddr:          settings.RedisAddr,
		RedisChannel:       settings.RedisChannel,
	}
}
