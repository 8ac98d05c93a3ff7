package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Frame pacing for every driver. Kinematics are per frame, so the rate is fixed.
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
)

// Terminal render limits. Larger terminals get a centered, bordered play area.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 50
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Ship holds the player ship tuning. Units are pixels and radians per frame.
type Ship struct {
	Size     float64 `yaml:"size"`
	Accel    float64 `yaml:"accel"`
	Friction float64 `yaml:"friction"`
	MaxSpeed float64 `yaml:"max_speed"`
	TurnStep float64 `yaml:"turn_step"`
}

// Projectile holds bullet tuning.
type Projectile struct {
	Speed float64 `yaml:"speed"`
	Life  int     `yaml:"life"` // Frames
}

// Spawn holds target placement tuning.
type Spawn struct {
	ExclusionRadius float64 `yaml:"exclusion_radius"` // Keep-out radius around the ship
	Margin          float64 `yaml:"margin"`           // Extra gap between target edges
	MaxAttempts     int     `yaml:"max_attempts"`
	SizeMin         float64 `yaml:"size_min"`
	SizeMax         float64 `yaml:"size_max"`
	SpeedMin        float64 `yaml:"speed_min"`
	SpeedMax        float64 `yaml:"speed_max"`
}

// Config is the complete game tuning.
type Config struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	TargetCount int     `yaml:"target_count"`
	// Seed for target placement. Zero seeds from the wall clock.
	Seed int64 `yaml:"seed"`

	ScorePerTarget int           `yaml:"score_per_target"`
	FireInterval   time.Duration `yaml:"fire_interval"`
	Invincibility  time.Duration `yaml:"invincibility"`
	ResizeDebounce time.Duration `yaml:"resize_debounce"`

	Ship       Ship       `yaml:"ship"`
	Projectile Projectile `yaml:"projectile"`
	Spawn      Spawn      `yaml:"spawn"`
}

// Default returns the stock tuning.
func Default() Config {
	return Config{
		Width:          1280,
		Height:         800,
		TargetCount:    15,
		ScorePerTarget: 100,
		FireInterval:   200 * time.Millisecond,
		Invincibility:  3 * time.Second,
		ResizeDebounce: 250 * time.Millisecond,
		Ship: Ship{
			Size:     40,
			Accel:    0.5,
			Friction: 0.98,
			MaxSpeed: 8,
			TurnStep: 0.1,
		},
		Projectile: Projectile{
			Speed: 10,
			Life:  100,
		},
		Spawn: Spawn{
			ExclusionRadius: 150,
			Margin:          50,
			MaxAttempts:     50,
			SizeMin:         30,
			SizeMax:         60,
			SpeedMin:        0.8,
			SpeedMax:        2.0,
		},
	}
}

// Load reads a YAML tuning file on top of the defaults.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from STARBLASTER_* environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok, err := lookupFloat("STARBLASTER_WIDTH"); err != nil {
		return err
	} else if ok {
		c.Width = v
	}
	if v, ok, err := lookupFloat("STARBLASTER_HEIGHT"); err != nil {
		return err
	} else if ok {
		c.Height = v
	}
	if v, ok, err := lookupInt("STARBLASTER_TARGETS"); err != nil {
		return err
	} else if ok {
		c.TargetCount = int(v)
	}
	if v, ok, err := lookupInt("STARBLASTER_SEED"); err != nil {
		return err
	} else if ok {
		c.Seed = v
	}
	if v, ok, err := lookupDuration("STARBLASTER_FIRE_INTERVAL"); err != nil {
		return err
	} else if ok {
		c.FireInterval = v
	}
	if v, ok, err := lookupDuration("STARBLASTER_INVINCIBILITY"); err != nil {
		return err
	} else if ok {
		c.Invincibility = v
	}
	return nil
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: play area %gx%g", ErrInvalidConfig, c.Width, c.Height)
	case c.TargetCount < 1:
		return fmt.Errorf("%w: target_count %d", ErrInvalidConfig, c.TargetCount)
	case c.ScorePerTarget < 0:
		return fmt.Errorf("%w: score_per_target %d", ErrInvalidConfig, c.ScorePerTarget)
	case c.FireInterval < 0 || c.Invincibility < 0 || c.ResizeDebounce < 0:
		return fmt.Errorf("%w: negative duration", ErrInvalidConfig)
	case c.Ship.Size <= 0 || c.Ship.MaxSpeed <= 0:
		return fmt.Errorf("%w: ship size/max_speed must be positive", ErrInvalidConfig)
	case c.Ship.Friction <= 0 || c.Ship.Friction >= 1:
		return fmt.Errorf("%w: ship friction %g not in (0,1)", ErrInvalidConfig, c.Ship.Friction)
	case c.Projectile.Life < 1 || c.Projectile.Speed <= 0:
		return fmt.Errorf("%w: projectile life/speed must be positive", ErrInvalidConfig)
	case c.Spawn.MaxAttempts < 1:
		return fmt.Errorf("%w: spawn max_attempts %d", ErrInvalidConfig, c.Spawn.MaxAttempts)
	case c.Spawn.SizeMin <= 0 || c.Spawn.SizeMax < c.Spawn.SizeMin:
		return fmt.Errorf("%w: spawn size range %g..%g", ErrInvalidConfig, c.Spawn.SizeMin, c.Spawn.SizeMax)
	case c.Spawn.SpeedMin < 0 || c.Spawn.SpeedMax < c.Spawn.SpeedMin:
		return fmt.Errorf("%w: spawn speed range %g..%g", ErrInvalidConfig, c.Spawn.SpeedMin, c.Spawn.SpeedMax)
	}
	return nil
}

// FromEnv loads the file named by STARBLASTER_CONFIG, applies env overrides and validates.
func FromEnv() (Config, error) {
	cfg, err := Load(GetEnv("STARBLASTER_CONFIG", ""))
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, cfg.Validate()
}
