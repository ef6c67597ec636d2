package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ThemeEnv names the environment variable that overrides the configured theme.
const ThemeEnv = "COMBATPICS_THEME"

// Loader locates and reads the configuration file.
type Loader struct {
	Version      string // "dev" enables the working directory rc file
	OverridePath string
	home         string
}

// NewLoader creates a Loader.
func NewLoader(version string, overridePath string) *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
		home:         home,
	}
}

// Load reads the first configuration file found, or returns defaults.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// GetConfigPath returns the path of the configuration file to read, or ""
// when none exists.
func (l *Loader) GetConfigPath() string {
	for _, path := range l.candidates() {
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			return path
		}
	}
	return ""
}

// DefaultPath is where a new configuration file is written.
func (l *Loader) DefaultPath() string {
	return filepath.Join(l.home, ".config", "combatpics", "config.rc")
}

func (l *Loader) candidates() []string {
	var paths []string
	if l.OverridePath != "" {
		paths = append(paths, l.OverridePath)
	}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			paths = append(paths, filepath.Join(wd, ".combatpicsrc"))
		}
	}
	if l.home != "" {
		paths = append(paths,
			l.DefaultPath(),
			filepath.Join(l.home, ".config", "combatpics", "combatpics.rc"),
		)
	}
	return paths
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(cfg.String()), 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// ThemeName applies the precedence flag, environment, config file.
func (c *Config) ThemeName(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(ThemeEnv); env != "" {
		return env
	}
	return c.Theme
}
