package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultDBHost, cfg.Database.Host)
	assert.Equal(t, DefaultDBUser, cfg.Database.User)
	assert.Equal(t, DefaultRedisAddr, cfg.Redis.Addr)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultMinIOBucket, cfg.MinIO.Bucket)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestApplyDefaults_ResultPassesValidation(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.NoError(t, cfg.Validate())
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Database.Host = "db.internal"
	cfg.Scoring.LocationWeight = 0.40
	cfg.Scoring.StructureWeight = 0.30
	cfg.Scoring.ConditionWeight = 0.20
	cfg.Scoring.FeaturesWeight = 0.10

	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 0.40, cfg.Scoring.LocationWeight)
	assert.Equal(t, 0.30, cfg.Scoring.StructureWeight)
}

func TestApplyDefaults_ScoringWeights(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, 0.45, cfg.Scoring.LocationWeight)
	assert.Equal(t, 0.25, cfg.Scoring.StructureWeight)
	assert.Equal(t, 0.20, cfg.Scoring.ConditionWeight)
	assert.Equal(t, 0.10, cfg.Scoring.FeaturesWeight)
}

func TestApplyDefaults_RenovationRates(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, 0.15, cfg.Renovation.ContingencyRate)
	assert.Equal(t, 0.03, cfg.Renovation.PermitsRate)
	assert.Equal(t, 0.20, cfg.Renovation.MarkupRate)
	assert.Equal(t, 0.20, cfg.Renovation.DefaultMargin)
}

func TestApplyDefaults_NilIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

//Personal.AI order the ending
