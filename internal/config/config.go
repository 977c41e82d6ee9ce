// Package config loads app config from env and an optional .env file using
// Viper. Engine thresholds live here and are handed to the report usecase
// as an explicit settings value, never read from globals mid-run.
package config

import (
	"errors"
	"strings"
	"time"

	"telemetry-analytics-service/internal/analytics/core/compute"

	"github.com/spf13/viper"
)

type Config struct {
	// HTTPAddr is the address the Fiber server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN for the interaction_events store.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Kafka ingest (worker only). Empty brokers disables the worker.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`

	// Engine thresholds.
	SessionGapMinutes    int     `mapstructure:"SESSION_GAP_MINUTES"`
	TopAppsLimit         int     `mapstructure:"TOP_APPS_LIMIT"`
	SegmentPowerMin      int     `mapstructure:"SEGMENT_POWER_MIN"`
	SegmentActiveMin     int     `mapstructure:"SEGMENT_ACTIVE_MIN"`
	SegmentRegularMin    int     `mapstructure:"SEGMENT_REGULAR_MIN"`
	ActiveWithinDays     int     `mapstructure:"ACTIVE_WITHIN_DAYS"`
	AtRiskWithinDays     int     `mapstructure:"AT_RISK_WITHIN_DAYS"`
	AnomalyZThreshold    float64 `mapstructure:"ANOMALY_Z_THRESHOLD"`
	CohortMaxOffsetWeeks int     `mapstructure:"COHORT_MAX_OFFSET_WEEKS"`
	LifecycleLimit       int     `mapstructure:"LIFECYCLE_LIMIT"`
}

// Load reads .env (if present), then builds and validates Config from the
// environment. Missing .env is ignored (e.g. in CI); env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	defaults := compute.DefaultSettings()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "audit-events")
	v.SetDefault("KAFKA_GROUP_ID", "telemetry-analytics-worker")
	v.SetDefault("SESSION_GAP_MINUTES", int(defaults.SessionGap/time.Minute))
	v.SetDefault("TOP_APPS_LIMIT", defaults.TopAppsLimit)
	v.SetDefault("SEGMENT_POWER_MIN", defaults.SegmentPowerMin)
	v.SetDefault("SEGMENT_ACTIVE_MIN", defaults.SegmentActiveMin)
	v.SetDefault("SEGMENT_REGULAR_MIN", defaults.SegmentRegularMin)
	v.SetDefault("ACTIVE_WITHIN_DAYS", int(defaults.ActiveWithin/(24*time.Hour)))
	v.SetDefault("AT_RISK_WITHIN_DAYS", int(defaults.AtRiskWithin/(24*time.Hour)))
	v.SetDefault("ANOMALY_Z_THRESHOLD", defaults.AnomalyZThreshold)
	v.SetDefault("COHORT_MAX_OFFSET_WEEKS", defaults.CohortMaxOffsetWeeks)
	v.SetDefault("LIFECYCLE_LIMIT", defaults.LifecycleLimit)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.SessionGapMinutes <= 0 {
		return errors.New("SESSION_GAP_MINUTES must be positive")
	}
	if c.AnomalyZThreshold <= 0 {
		return errors.New("ANOMALY_Z_THRESHOLD must be positive")
	}
	if c.CohortMaxOffsetWeeks < 0 {
		return errors.New("COHORT_MAX_OFFSET_WEEKS must not be negative")
	}
	if c.SegmentPowerMin < c.SegmentActiveMin || c.SegmentActiveMin < c.SegmentRegularMin {
		return errors.New("segment thresholds must be ordered power >= active >= regular")
	}
	return nil
}

// KafkaBrokersList splits the comma-separated broker list, dropping blanks.
func (c *Config) KafkaBrokersList() []string {
	if c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Settings converts the loaded thresholds into the engine's settings value.
func (c *Config) Settings() compute.Settings {
	return compute.Settings{
		SessionGap:           time.Duration(c.SessionGapMinutes) * time.Minute,
		TopAppsLimit:         c.TopAppsLimit,
		SegmentPowerMin:      c.SegmentPowerMin,
		SegmentActiveMin:     c.SegmentActiveMin,
		SegmentRegularMin:    c.SegmentRegularMin,
		ActiveWithin:         time.Duration(c.ActiveWithinDays) * 24 * time.Hour,
		AtRiskWithin:         time.Duration(c.AtRiskWithinDays) * 24 * time.Hour,
		AnomalyZThreshold:    c.AnomalyZThreshold,
		CohortMaxOffsetWeeks: c.CohortMaxOffsetWeeks,
		LifecycleLimit:       c.LifecycleLimit,
	}
}
