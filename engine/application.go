package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/houseview/engine/core"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"start_width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"start_height"`
	// The application name used in windowing, if applicable.
	Name     string `toml:"name"`
	LogLevel string `toml:"log_level"`
	// Directory the asset manager indexes.
	AssetsDir string `toml:"assets_dir"`
	// Background workers decoding assets.
	Workers      int `toml:"workers"`
	JobQueueSize int `toml:"job_queue_size"`
}

func DefaultApplicationConfig() ApplicationConfig {
	return ApplicationConfig{
		StartPosX:    100,
		StartPosY:    100,
		StartWidth:   1280,
		StartHeight:  720,
		Name:         "houseview",
		LogLevel:     "info",
		AssetsDir:    "assets",
		Workers:      2,
		JobQueueSize: 16,
	}
}

// Validate rejects configurations the engine cannot start with.
func (c ApplicationConfig) Validate() error {
	if c.StartWidth == 0 || c.StartHeight == 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.StartWidth, c.StartHeight)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0, got %d", c.Workers)
	}
	if c.JobQueueSize < 0 {
		return fmt.Errorf("job_queue_size must be >= 0, got %d", c.JobQueueSize)
	}
	if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// LoadApplicationConfig reads the [application] table of a TOML file on top
// of the defaults. A missing file yields the defaults.
func LoadApplicationConfig(path string) (ApplicationConfig, error) {
	doc := struct {
		Application ApplicationConfig `toml:"application"`
	}{Application: DefaultApplicationConfig()}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		core.LogInfo("config file %s not found, using defaults", path)
		return doc.Application, nil
	}
	if err != nil {
		return doc.Application, err
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return doc.Application, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := doc.Application.Validate(); err != nil {
		return doc.Application, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return doc.Application, nil
}
