package viewer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/houseview/engine/core"
	"github.com/spaghettifunk/houseview/engine/math"
)

// Config is the [viewer] table of the application config file.
type Config struct {
	EnvironmentPath string `toml:"environment_path"`
	ModelPath       string `toml:"model_path"`
	// LayoutPath is optional; an empty path skips the overlay layout.
	LayoutPath    string `toml:"layout_path"`
	RoofOverlayID string `toml:"roof_overlay_id"`

	// FadeMS drives both the roof overlay transition and its hide delay.
	FadeMS    int     `toml:"fade_ms"`
	ClickSlop float64 `toml:"click_slop"`

	CameraFOV      float32    `toml:"camera_fov"`
	CameraNear     float32    `toml:"camera_near"`
	CameraFar      float32    `toml:"camera_far"`
	CameraPosition [3]float32 `toml:"camera_position"`
	DampingFactor  float32    `toml:"damping_factor"`
	MinDistance    float32    `toml:"min_distance"`
	MaxDistance    float32    `toml:"max_distance"`

	ModelScale float32 `toml:"model_scale"`
	// ModelRotationY is in degrees.
	ModelRotationY       float32 `toml:"model_rotation_y"`
	EnvironmentIntensity float32 `toml:"environment_intensity"`
}

func DefaultConfig() Config {
	return Config{
		EnvironmentPath:      "textures/environment.hdr",
		ModelPath:            "models/house.glb",
		LayoutPath:           "ui/overlay.toml",
		RoofOverlayID:        "overlay",
		FadeMS:               300,
		ClickSlop:            core.DefaultClickSlop,
		CameraFOV:            45,
		CameraNear:           0.1,
		CameraFar:            1000,
		CameraPosition:       [3]float32{10, 6, 14},
		DampingFactor:        0.05,
		MinDistance:          1,
		MaxDistance:          500,
		ModelScale:           1,
		ModelRotationY:       0,
		EnvironmentIntensity: 1,
	}
}

// FadeDuration is the roof overlay transition length.
func (c Config) FadeDuration() time.Duration {
	return time.Duration(c.FadeMS) * time.Millisecond
}

func (c Config) cameraPosition() math.Vec3 {
	return math.Vec3{c.CameraPosition[0], c.CameraPosition[1], c.CameraPosition[2]}
}

func (c Config) Validate() error {
	switch {
	case c.EnvironmentPath == "":
		return errors.New("environment_path is required")
	case c.ModelPath == "":
		return errors.New("model_path is required")
	case c.FadeMS < 0:
		return fmt.Errorf("fade_ms must be >= 0, got %d", c.FadeMS)
	case c.ClickSlop < 0:
		return fmt.Errorf("click_slop must be >= 0, got %v", c.ClickSlop)
	case c.CameraFOV <= 0 || c.CameraFOV >= 180:
		return fmt.Errorf("camera_fov must be in (0, 180), got %v", c.CameraFOV)
	case c.CameraNear <= 0 || c.CameraFar <= c.CameraNear:
		return fmt.Errorf("camera clip range [%v, %v] is invalid", c.CameraNear, c.CameraFar)
	case c.DampingFactor < 0 || c.DampingFactor > 1:
		return fmt.Errorf("damping_factor must be in [0, 1], got %v", c.DampingFactor)
	case c.MaxDistance < c.MinDistance:
		return fmt.Errorf("max_distance %v is below min_distance %v", c.MaxDistance, c.MinDistance)
	case c.ModelScale <= 0:
		return fmt.Errorf("model_scale must be > 0, got %v", c.ModelScale)
	case c.RoofOverlayID == InfoPanelID:
		return fmt.Errorf("roof_overlay_id %q is reserved for the info panel", c.RoofOverlayID)
	}
	return nil
}

// LoadConfig reads the [viewer] table of a TOML file on top of the
// defaults. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	doc := struct {
		Viewer Config `toml:"viewer"`
	}{Viewer: DefaultConfig()}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc.Viewer, nil
	}
	if err != nil {
		return doc.Viewer, err
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return doc.Viewer, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := doc.Viewer.Validate(); err != nil {
		return doc.Viewer, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return doc.Viewer, nil
}
