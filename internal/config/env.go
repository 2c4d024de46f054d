// Package config provides the fixed console constants and the ambient
// environment (logging only; nothing here changes command behavior).
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

const (
	// FileName is the backing store, relative to the working directory.
	FileName = "file.json"

	// Prompt is printed before every line is read.
	Prompt = "(hbnb) "
)

// HBNBEnv holds the hbnb environment variables.
type HBNBEnv struct {
	// LogLevel is the minimum level for stderr diagnostics (HBNB_LOG_LEVEL)
	LogLevel string

	// EnvFile is the dotenv file loaded at startup (HBNB_ENV_FILE)
	EnvFile string

	// LogFile sends diagnostics to a rotating file instead of stderr
	// when set (HBNB_LOG_FILE)
	LogFile string
}

var (
	env     *HBNBEnv
	envOnce sync.Once
)

// Env returns the singleton environment configuration.
// Thread-safe, loads once on first call.
func Env() *HBNBEnv {
	envOnce.Do(func() {
		env = &HBNBEnv{
			LogLevel: getEnvDefault("HBNB_LOG_LEVEL", "warn"),
			EnvFile:  getEnvDefault("HBNB_ENV_FILE", Path(".env")),
			LogFile:  os.Getenv("HBNB_LOG_FILE"),
		}
	})
	return env
}

// ResetEnv resets the cached environment (for testing).
func ResetEnv() {
	envOnce = sync.Once{}
	env = nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Home returns the hbnb home directory (~/.hbnb).
func Home() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".hbnb")
}

// Path returns a path under the hbnb home directory.
func Path(parts ...string) string {
	return filepath.Join(append([]string{Home()}, parts...)...)
}

// LoadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
// The cached Env is reset so the next call sees the loaded values.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	ResetEnv()
	return nil
}
