package update

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

type RuntimeConfig struct {
	DatabasePath  string
	AlertBuffer   int
	DateDetection bool
	PreviewStyle  string
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DatabasePath:  "noted.db",
		AlertBuffer:   64,
		DateDetection: true,
		PreviewStyle:  "dark",
	}
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("NOTED_DB_PATH")); v != "" {
		cfg.DatabasePath = v
	}
	if v, ok := getEnvInt("NOTED_ALERT_BUFFER"); ok && v > 0 {
		cfg.AlertBuffer = v
	}
	if v, ok := getEnvBool("NOTED_DATE_DETECTION"); ok {
		cfg.DateDetection = v
	}
	if v := strings.TrimSpace(os.Getenv("NOTED_PREVIEW_STYLE")); v != "" {
		cfg.PreviewStyle = v
	}
	return cfg
}

// fileConfig is the on-disk TOML shape. Pointer fields distinguish "not
// set" from a zero value.
type fileConfig struct {
	DatabasePath  string `toml:"database_path"`
	AlertBuffer   int    `toml:"alert_buffer"`
	DateDetection *bool  `toml:"date_detection"`
	PreviewStyle  string `toml:"preview_style"`
}

// LoadOrCreateConfigFile overlays the TOML file at path onto base. A
// missing file is written out with the base values so the user has
// something to edit.
func LoadOrCreateConfigFile(path string, base RuntimeConfig) (RuntimeConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return base, err
		}
		if writeErr := writeConfigFile(path, base); writeErr != nil {
			return base, writeErr
		}
		return base, nil
	}

	var fc fileConfig
	if err := toml.Unmarshal(raw, &fc); err != nil {
		return base, err
	}

	cfg := base
	if strings.TrimSpace(fc.DatabasePath) != "" {
		cfg.DatabasePath = fc.DatabasePath
	}
	if fc.AlertBuffer > 0 {
		cfg.AlertBuffer = fc.AlertBuffer
	}
	if fc.DateDetection != nil {
		cfg.DateDetection = *fc.DateDetection
	}
	if strings.TrimSpace(fc.PreviewStyle) != "" {
		cfg.PreviewStyle = fc.PreviewStyle
	}
	return cfg, nil
}

func writeConfigFile(path string, cfg RuntimeConfig) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	detect := cfg.DateDetection
	payload, err := toml.Marshal(fileConfig{
		DatabasePath:  cfg.DatabasePath,
		AlertBuffer:   cfg.AlertBuffer,
		DateDetection: &detect,
		PreviewStyle:  cfg.PreviewStyle,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
