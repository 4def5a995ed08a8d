// Package config handles loading flowstate.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"

	"github.com/amonks/flowstate/internal/paths"
	internalstrings "github.com/amonks/flowstate/internal/strings"
	"github.com/amonks/flowstate/internal/validation"
)

// ProjectFile is the name of the per-project config file.
const ProjectFile = "flowstate.toml"

// Backend selects the durable medium behind the stores.
type Backend string

const (
	// BackendFile stores one JSON file per collection.
	BackendFile Backend = "file"
	// BackendSQLite stores collections in a SQLite database.
	BackendSQLite Backend = "sqlite"
	// BackendMemory keeps collections in memory only.
	BackendMemory Backend = "memory"
)

// ValidBackends returns all valid backend values.
func ValidBackends() []Backend {
	return []Backend{BackendFile, BackendSQLite, BackendMemory}
}

// IsValid returns true if the backend is a known value.
func (b Backend) IsValid() bool {
	for _, valid := range ValidBackends() {
		if b == valid {
			return true
		}
	}
	return false
}

// ErrInvalidBackend indicates an unknown store backend.
var ErrInvalidBackend = fmt.Errorf("invalid store backend")

// Config represents the flowstate.toml configuration file.
type Config struct {
	Store Store `toml:"store"`
	Query Query `toml:"query"`
	Todo  Todo  `toml:"todo"`
	User  User  `toml:"user"`
}

// Store contains persistence configuration.
type Store struct {
	// Backend is "file" (default), "sqlite" or "memory".
	Backend Backend `toml:"backend"`
	// Dir holds the state files. $FLOWSTATE_DIR takes precedence.
	Dir string `toml:"dir"`
}

// Query contains configuration shared by list views.
type Query struct {
	// Locale is a BCP 47 tag used for alphabetical ordering.
	Locale string `toml:"locale"`
}

// Todo contains todo list defaults.
type Todo struct {
	Sort string `toml:"sort"`
}

// User contains user list defaults.
type User struct {
	Sort string `toml:"sort"`
}

// Load loads configuration from the project directory and the global config
// file. Returns a default config if no config files exist.
func Load(projectDir string) (*Config, error) {
	globalPath, err := globalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, _, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(projectDir, ProjectFile))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, projectMeta)
	if err := merged.validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// StateDir resolves the directory holding persisted collections.
func (c *Config) StateDir() (string, error) {
	return paths.ResolveStateDir(c.Store.Dir)
}

// Locale returns the configured collation locale, English by default.
func (c *Config) Locale() language.Tag {
	if c.Query.Locale == "" {
		return language.English
	}
	tag, err := language.Parse(c.Query.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

func (c *Config) validate() error {
	if !c.Store.Backend.IsValid() {
		return validation.FormatInvalidValueError(ErrInvalidBackend, c.Store.Backend, ValidBackends())
	}
	if c.Query.Locale != "" {
		if _, err := language.Parse(c.Query.Locale); err != nil {
			return fmt.Errorf("parse query locale %q: %w", c.Query.Locale, err)
		}
	}
	return nil
}

func globalConfigPath() (string, error) {
	dir, err := paths.DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: unknown key %s", path, undecoded[0])
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	backend := mergeString(projectMeta.IsDefined("store", "backend"), string(projectCfg.Store.Backend), string(globalCfg.Store.Backend))
	merged.Store.Backend = Backend(internalstrings.NormalizeLower(backend))
	if merged.Store.Backend == "" {
		merged.Store.Backend = BackendFile
	}
	merged.Store.Dir = mergeString(projectMeta.IsDefined("store", "dir"), projectCfg.Store.Dir, globalCfg.Store.Dir)
	merged.Query.Locale = mergeString(projectMeta.IsDefined("query", "locale"), projectCfg.Query.Locale, globalCfg.Query.Locale)
	merged.Todo.Sort = mergeString(projectMeta.IsDefined("todo", "sort"), projectCfg.Todo.Sort, globalCfg.Todo.Sort)
	merged.User.Sort = mergeString(projectMeta.IsDefined("user", "sort"), projectCfg.User.Sort, globalCfg.User.Sort)

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}
