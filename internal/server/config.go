package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the arena tuning, loadable from yaml with defaults applied for
// anything the file omits. Intervals are plain milliseconds in the file.
type Config struct {
	WorldWidth  float64 `yaml:"world_width"`
	WorldHeight float64 `yaml:"world_height"`
	Border      float64 `yaml:"border"`

	MaxFoods        int     `yaml:"max_foods"`
	FoodSpawnMargin float64 `yaml:"food_spawn_margin"`
	FoodTopUpBatch  int     `yaml:"food_top_up_batch"`

	TickRate            int     `yaml:"tick_rate_hz"`
	HeartbeatMs         int     `yaml:"heartbeat_ms"`
	FoodRespawnMs       int     `yaml:"food_respawn_ms"`
	FoodTopUpMs         int     `yaml:"food_top_up_ms"`
	LeaderboardMs       int     `yaml:"leaderboard_ms"`
	LeaderboardSize     int     `yaml:"leaderboard_size"`
	JournalPath         string  `yaml:"journal_path"`
	AllowedOrigin       string  `yaml:"allowed_origin"`
	FoodTopUpThreshold  float64 `yaml:"food_top_up_threshold"`
	HeartbeatMissBudget int     `yaml:"heartbeat_miss_budget"`
}

func DefaultConfig() Config {
	return Config{
		WorldWidth:          1200,
		WorldHeight:         800,
		Border:              20,
		MaxFoods:            200,
		FoodSpawnMargin:     20,
		FoodTopUpBatch:      20,
		TickRate:            15,
		HeartbeatMs:         2000,
		FoodRespawnMs:       2000,
		FoodTopUpMs:         10000,
		LeaderboardMs:       5000,
		LeaderboardSize:     10,
		FoodTopUpThreshold:  0.7,
		HeartbeatMissBudget: 3,
	}
}

// LoadConfig reads a yaml tuning file and fills gaps with defaults. An
// empty path returns the defaults untouched.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg.normalized(), nil
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.WorldWidth <= 0 {
		c.WorldWidth = d.WorldWidth
	}
	if c.WorldHeight <= 0 {
		c.WorldHeight = d.WorldHeight
	}
	if c.Border < 0 {
		c.Border = d.Border
	}
	if c.MaxFoods <= 0 {
		c.MaxFoods = d.MaxFoods
	}
	if c.FoodSpawnMargin < 0 {
		c.FoodSpawnMargin = d.FoodSpawnMargin
	}
	if c.FoodTopUpBatch <= 0 {
		c.FoodTopUpBatch = d.FoodTopUpBatch
	}
	if c.TickRate <= 0 {
		c.TickRate = d.TickRate
	}
	if c.HeartbeatMs <= 0 {
		c.HeartbeatMs = d.HeartbeatMs
	}
	if c.FoodRespawnMs <= 0 {
		c.FoodRespawnMs = d.FoodRespawnMs
	}
	if c.FoodTopUpMs <= 0 {
		c.FoodTopUpMs = d.FoodTopUpMs
	}
	if c.LeaderboardMs <= 0 {
		c.LeaderboardMs = d.LeaderboardMs
	}
	if c.LeaderboardSize <= 0 {
		c.LeaderboardSize = d.LeaderboardSize
	}
	if c.FoodTopUpThreshold <= 0 || c.FoodTopUpThreshold > 1 {
		c.FoodTopUpThreshold = d.FoodTopUpThreshold
	}
	if c.HeartbeatMissBudget <= 0 {
		c.HeartbeatMissBudget = d.HeartbeatMissBudget
	}
	return c
}

func (c Config) HeartbeatInterval() time.Duration {
	return time.Duration(c.HeartbeatMs) * time.Millisecond
}

func (c Config) FoodRespawnDelay() time.Duration {
	return time.Duration(c.FoodRespawnMs) * time.Millisecond
}

func (c Config) FoodTopUpInterval() time.Duration {
	return time.Duration(c.FoodTopUpMs) * time.Millisecond
}

func (c Config) LeaderboardInterval() time.Duration {
	return time.Duration(c.LeaderboardMs) * time.Millisecond
}

// DisconnectAfter is how long a silent client survives before the
// heartbeat sweep drops it.
func (c Config) DisconnectAfter() time.Duration {
	return time.Duration(c.HeartbeatMissBudget) * c.HeartbeatInterval()
}
