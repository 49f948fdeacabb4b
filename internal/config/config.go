// Package config handles repository discovery and configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config represents repository configuration stored in .promptkeep/config.json.
type Config struct {
	PromptsDir string `json:"prompts_dir,omitempty"` // Prompt files directory, relative to root (default "prompts")
	ArchiveDir string `json:"archive_dir,omitempty"` // Soft-delete destination, relative to root (default ".promptkeep/archive")
	Editor     string `json:"editor,omitempty"`      // Editor command for opening prompts
}

const (
	PromptkeepDir     = ".promptkeep"
	ConfigFile        = "config.json"
	CacheDir          = "cache"
	DBFile            = "index.db"
	DefaultPromptsDir = "prompts"
	DefaultArchiveDir = ".promptkeep/archive"

	// RootEnv overrides repository discovery when set.
	RootEnv = "PROMPTKEEP_ROOT"
)

// PromptkeepPath returns the path to the .promptkeep directory from a root path.
func PromptkeepPath(root string) string {
	return filepath.Join(root, PromptkeepDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, PromptkeepDir, ConfigFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, PromptkeepDir, CacheDir)
}

// DBPath returns the path to the metadata index database from a root path.
func DBPath(root string) string {
	return filepath.Join(root, PromptkeepDir, CacheDir, DBFile)
}

// PromptsPath returns the prompt files directory for a root and config.
func (c *Config) PromptsPath(root string) string {
	dir := c.PromptsDir
	if dir == "" {
		dir = DefaultPromptsDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

// ArchivePath returns the soft-delete archive directory for a root and config.
func (c *Config) ArchivePath(root string) string {
	dir := c.ArchiveDir
	if dir == "" {
		dir = DefaultArchiveDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

// IsRepository checks if the given path contains a promptkeep repository.
func IsRepository(root string) bool {
	info, err := os.Stat(PromptkeepPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a promptkeep
// repository. The PROMPTKEEP_ROOT environment variable (or a .env file in
// the starting directory) short-circuits the walk.
func FindRepository(start string) (string, error) {
	// Best effort; a missing .env is not an error.
	_ = godotenv.Load(filepath.Join(start, ".env"))

	if root := os.Getenv(RootEnv); root != "" {
		root = ExpandPath(root)
		if !IsRepository(root) {
			return "", fmt.Errorf("%s is set but %s is not a promptkeep repository", RootEnv, root)
		}
		return root, nil
	}

	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a promptkeep repository (no .promptkeep directory found)")
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root.
// A missing config file yields the zero config (all defaults).
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
