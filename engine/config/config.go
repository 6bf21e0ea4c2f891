// Package config loads engine settings from an optional JSON file on top of built-in defaults.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// FileName is the configuration file looked up in the directory passed to Load.
const FileName = "oxy_draw.cfg.json"

// DepthConfig holds the depth policy of the debug shape pipelines.
// Standard covers shapes appended outside a capture, Gizmos covers shapes appended while capturing.
type DepthConfig struct {
	TestStandard  bool `json:"testStandard" mapstructure:"testStandard"`
	TestGizmos    bool `json:"testGizmos" mapstructure:"testGizmos"`
	WriteStandard bool `json:"writeStandard" mapstructure:"writeStandard"`
	WriteGizmos   bool `json:"writeGizmos" mapstructure:"writeGizmos"`
	SceneView     bool `json:"sceneView" mapstructure:"sceneView"`
	GameView      bool `json:"gameView" mapstructure:"gameView"`
}

// TextConfig holds debug text settings.
type TextConfig struct {
	Scale float64 `json:"scale" mapstructure:"scale"`
}

// DebugDrawConfig holds every debug drawing setting.
type DebugDrawConfig struct {
	InitialCapacity int         `json:"initialCapacity" mapstructure:"initialCapacity"`
	TextCapacity    int         `json:"textCapacity" mapstructure:"textCapacity"`
	PruneWorkers    int         `json:"pruneWorkers" mapstructure:"pruneWorkers"`
	FixedStepRate   int         `json:"fixedStepRate" mapstructure:"fixedStepRate"`
	Depth           DepthConfig `json:"depth" mapstructure:"depth"`
	Text            TextConfig  `json:"text" mapstructure:"text"`
}

// SetDefaults registers the default value of every key. Load calls it; tests that skip Load can call it directly.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("debugDraw.initialCapacity", 64)
	viper.SetDefault("debugDraw.textCapacity", 16)
	viper.SetDefault("debugDraw.pruneWorkers", 4)
	viper.SetDefault("debugDraw.fixedStepRate", 50)

	viper.SetDefault("debugDraw.depth.testStandard", true)
	viper.SetDefault("debugDraw.depth.testGizmos", false)
	viper.SetDefault("debugDraw.depth.writeStandard", false)
	viper.SetDefault("debugDraw.depth.writeGizmos", false)
	viper.SetDefault("debugDraw.depth.sceneView", true)
	viper.SetDefault("debugDraw.depth.gameView", true)

	viper.SetDefault("debugDraw.text.scale", 1.0)

	viper.SetDefault("metrics.enabled", true)
}

// Load sets default values and then reads FileName from configDir when it exists.
// A missing file leaves the defaults in place; an unreadable or malformed file is an error.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// DebugDraw returns the debug drawing settings with out-of-range values corrected.
func DebugDraw() DebugDrawConfig {
	cfg := DebugDrawConfig{
		InitialCapacity: viper.GetInt("debugDraw.initialCapacity"),
		TextCapacity:    viper.GetInt("debugDraw.textCapacity"),
		PruneWorkers:    viper.GetInt("debugDraw.pruneWorkers"),
		FixedStepRate:   viper.GetInt("debugDraw.fixedStepRate"),
		Depth: DepthConfig{
			TestStandard:  viper.GetBool("debugDraw.depth.testStandard"),
			TestGizmos:    viper.GetBool("debugDraw.depth.testGizmos"),
			WriteStandard: viper.GetBool("debugDraw.depth.writeStandard"),
			WriteGizmos:   viper.GetBool("debugDraw.depth.writeGizmos"),
			SceneView:     viper.GetBool("debugDraw.depth.sceneView"),
			GameView:      viper.GetBool("debugDraw.depth.gameView"),
		},
		Text: TextConfig{
			Scale: viper.GetFloat64("debugDraw.text.scale"),
		},
	}
	cfg.InitialCapacity = max(cfg.InitialCapacity, 0)
	cfg.TextCapacity = max(cfg.TextCapacity, 0)
	cfg.PruneWorkers = max(cfg.PruneWorkers, 0)
	if cfg.FixedStepRate <= 0 {
		cfg.FixedStepRate = 50
	}
	if cfg.Text.Scale <= 0 {
		cfg.Text.Scale = 1
	}
	return cfg
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat returns a float config value.
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}
