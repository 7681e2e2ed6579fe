// Package config provides configuration loading, defaults, and validation for
// the comps-engine service.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort = 8080
	DefaultServerMode = "debug"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBUser     = "comps"
	DefaultDBName     = "comps"
	DefaultDBMaxConns = 25

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisDB        = 0
	DefaultRedisKeyPrefix = "comps"
	DefaultRedisTTL       = 10 * time.Minute

	DefaultKafkaBroker  = "localhost:9092"
	DefaultKafkaGroupID = "comps-engine"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "comps-exports"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Comparability-scoring weights.  Location dominates.
	DefaultLocationWeight  = 0.45
	DefaultStructureWeight = 0.25
	DefaultConditionWeight = 0.20
	DefaultFeaturesWeight  = 0.10

	// Renovation surcharge rates, each applied to the raw subtotal.
	DefaultContingencyRate  = 0.15
	DefaultPermitsRate      = 0.03
	DefaultMarkupRate       = 0.20
	DefaultProfitMargin     = 0.20
	DefaultHoldingCostRate  = 0.05
	DefaultSellingCostRate  = 0.08
	DefaultSellingCostBasis = 1.3
)

// ─────────────────────────────────────────────────────────────────────────────
// ApplyDefaults fills zero-value fields in cfg with well-known defaults.
// It must be called after unmarshalling raw config data and before Validate()
// so that optional-but-defaulted fields are never seen as missing.
// ─────────────────────────────────────────────────────────────────────────────

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.User == "" {
		cfg.Database.User = DefaultDBUser
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultRedisTTL
	}
	// DB is an int; 0 is a valid explicit value so we cannot distinguish "not
	// set" from "set to 0".  We leave it as-is (0 is also the default).

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.TopicPrefix == "" {
		cfg.Kafka.TopicPrefix = "comps"
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.MinIO.PresignExpiry == 0 {
		cfg.MinIO.PresignExpiry = 24 * time.Hour
	}

	// ── Scoring ───────────────────────────────────────────────────────────────
	if cfg.Scoring.LocationWeight == 0 && cfg.Scoring.StructureWeight == 0 &&
		cfg.Scoring.ConditionWeight == 0 && cfg.Scoring.FeaturesWeight == 0 {
		cfg.Scoring.LocationWeight = DefaultLocationWeight
		cfg.Scoring.StructureWeight = DefaultStructureWeight
		cfg.Scoring.ConditionWeight = DefaultConditionWeight
		cfg.Scoring.FeaturesWeight = DefaultFeaturesWeight
	}

	// ── Renovation ────────────────────────────────────────────────────────────
	if cfg.Renovation.ContingencyRate == 0 {
		cfg.Renovation.ContingencyRate = DefaultContingencyRate
	}
	if cfg.Renovation.PermitsRate == 0 {
		cfg.Renovation.PermitsRate = DefaultPermitsRate
	}
	if cfg.Renovation.MarkupRate == 0 {
		cfg.Renovation.MarkupRate = DefaultMarkupRate
	}
	if cfg.Renovation.DefaultMargin == 0 {
		cfg.Renovation.DefaultMargin = DefaultProfitMargin
	}
	if cfg.Renovation.HoldingCostRate == 0 {
		cfg.Renovation.HoldingCostRate = DefaultHoldingCostRate
	}
	if cfg.Renovation.SellingCostRate == 0 {
		cfg.Renovation.SellingCostRate = DefaultSellingCostRate
	}
	if cfg.Renovation.SellingCostBasis == 0 {
		cfg.Renovation.SellingCostBasis = DefaultSellingCostBasis
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// NewDefaultConfig returns a Config populated entirely with service defaults.
// The result passes Validate() and is suitable for tests and local tooling.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

//Personal.AI order the ending
