package config

import (
	"errors"
	"fmt"
	"os"
	"planner/meta"
	"planner/searcher"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const envPrefix = "PLANNER_"

type Config struct {
	LogLevel   string           `yaml:"log_level"`
	Seed       uint64           `yaml:"seed"`
	Search     SearchConfig     `yaml:"search"`
	Experiment ExperimentConfig `yaml:"experiment"`
}

type SearchConfig struct {
	Episodes    int           `yaml:"episodes"`
	Duration    time.Duration `yaml:"duration"`
	Horizon     int           `yaml:"horizon"`
	Discount    float64       `yaml:"discount"`
	Exploration float64       `yaml:"exploration"` // Squared UCT constant
	// Temperature selects the training agent when positive
	Temperature float64 `yaml:"temperature"`
}

type ExperimentConfig struct {
	Games       int    `yaml:"games"`
	Parallel    int    `yaml:"parallel"`
	MaxSteps    int    `yaml:"max_steps"`
	Dir         string `yaml:"dir"`
	Horizons    []int  `yaml:"horizons"`
	EpisodeRuns []int  `yaml:"episode_runs"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Seed:     1,
		Search: SearchConfig{
			Episodes:    meta.EPISODES,
			Horizon:     meta.HORIZON,
			Discount:    searcher.DefaultDiscount,
			Exploration: searcher.CSquared,
		},
		Experiment: ExperimentConfig{
			Games:    meta.GAMES,
			Parallel: meta.PARALLEL_GAMES,
			MaxSteps: meta.MAX_STEPS,
			Dir:      meta.EXPERIMENTS_DIR,
		},
	}
}

// Load merges the defaults, the YAML file at path (if any) and PLANNER_*
// environment variables, in that order, and validates the result.
func Load(path string) (Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return config, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := loadEnv(&config); err != nil {
		return config, fmt.Errorf("load config from environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func loadEnv(c *Config) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}
	parse := func(key string, set func(string) error) {
		if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
			if err := set(v); err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
			}
		}
	}
	integer := func(dst *int) func(string) error {
		return func(v string) (err error) {
			*dst, err = strconv.Atoi(v)
			return err
		}
	}
	float := func(dst *float64) func(string) error {
		return func(v string) (err error) {
			*dst, err = strconv.ParseFloat(v, 64)
			return err
		}
	}

	str("LOG_LEVEL", &c.LogLevel)
	parse("SEED", func(v string) (err error) {
		c.Seed, err = strconv.ParseUint(v, 10, 64)
		return err
	})
	parse("EPISODES", integer(&c.Search.Episodes))
	parse("DURATION", func(v string) (err error) {
		c.Search.Duration, err = time.ParseDuration(v)
		return err
	})
	parse("HORIZON", integer(&c.Search.Horizon))
	parse("DISCOUNT", float(&c.Search.Discount))
	parse("EXPLORATION", float(&c.Search.Exploration))
	parse("TEMPERATURE", float(&c.Search.Temperature))
	parse("GAMES", integer(&c.Experiment.Games))
	parse("PARALLEL", integer(&c.Experiment.Parallel))
	parse("MAX_STEPS", integer(&c.Experiment.MaxSteps))
	str("RESULTS_DIR", &c.Experiment.Dir)

	return errors.Join(errs...)
}

func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	s := c.Search
	if s.Episodes <= 0 && s.Duration <= 0 {
		return errors.New("search needs episodes or a duration")
	}
	if s.Horizon <= 0 {
		return errors.New("horizon must be > 0")
	}
	if s.Discount <= 0 || s.Discount > 1 {
		return errors.New("discount must be in (0, 1]")
	}
	if s.Exploration < 0 {
		return errors.New("exploration must be >= 0")
	}
	if s.Temperature < 0 {
		return errors.New("temperature must be >= 0")
	}
	e := c.Experiment
	if e.Games <= 0 || e.Parallel <= 0 || e.MaxSteps <= 0 {
		return errors.New("games, parallel and max_steps must be > 0")
	}
	for _, h := range e.Horizons {
		if h <= 0 {
			return fmt.Errorf("horizons: %d must be > 0", h)
		}
	}
	for _, n := range e.EpisodeRuns {
		if n <= 0 {
			return fmt.Errorf("episode_runs: %d must be > 0", n)
		}
	}
	return nil
}

// Level returns the zerolog level named by LogLevel.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// SearchOptions translates the search section into searcher options. A
// duration takes precedence over episodes.
func (c Config) SearchOptions() []searcher.Option {
	options := []searcher.Option{
		searcher.WithHorizon(c.Search.Horizon),
		searcher.WithDiscount(c.Search.Discount),
		searcher.WithExploration(c.Search.Exploration),
		searcher.WithSeed(c.Seed),
	}
	if c.Search.Duration > 0 {
		return append(options, searcher.WithDuration(c.Search.Duration))
	}
	return append(options, searcher.WithEpisodes(c.Search.Episodes))
}
