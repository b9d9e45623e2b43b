package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Redis (optional; empty disables the result cache)
	RedisURL string `mapstructure:"REDIS_URL"`

	// Solver
	SolverTimeLimit int    `mapstructure:"SOLVER_TIME_LIMIT"` // seconds
	SolverBackend   string `mapstructure:"SOLVER_BACKEND"`    // "auto", "glpk", "bnb"
	MaxSolverRoster int    `mapstructure:"MAX_SOLVER_ROSTER"` // 0 = solve the whole roster

	// Objective weights; keep RESTRICTED >> NOT_PREFERRED >> BENCH_DEVIATION
	RestrictedPenalty    float64 `mapstructure:"RESTRICTED_PENALTY"`
	NotPreferredPenalty  float64 `mapstructure:"NOT_PREFERRED_PENALTY"`
	BenchDeviationWeight float64 `mapstructure:"BENCH_DEVIATION_WEIGHT"`

	// Caching
	CacheTTLHours int `mapstructure:"CACHE_TTL_HOURS"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("SOLVER_TIME_LIMIT", 55) // keep under upstream HTTP timeouts
	viper.SetDefault("SOLVER_BACKEND", "auto")
	viper.SetDefault("MAX_SOLVER_ROSTER", 0)
	viper.SetDefault("RESTRICTED_PENALTY", 1000.0)
	viper.SetDefault("NOT_PREFERRED_PENALTY", 10.0)
	viper.SetDefault("BENCH_DEVIATION_WEIGHT", 1.0)
	viper.SetDefault("CACHE_TTL_HOURS", 24)

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects settings the optimizer cannot run with.
func (c *Config) Validate() error {
	if c.SolverTimeLimit <= 0 {
		return fmt.Errorf("SOLVER_TIME_LIMIT must be positive, got %d", c.SolverTimeLimit)
	}
	if c.MaxSolverRoster < 0 {
		return fmt.Errorf("MAX_SOLVER_ROSTER must not be negative, got %d", c.MaxSolverRoster)
	}
	if c.RestrictedPenalty < 0 || c.NotPreferredPenalty < 0 || c.BenchDeviationWeight < 0 {
		return fmt.Errorf("objective weights must not be negative")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
