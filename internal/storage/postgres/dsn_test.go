package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GoSim-25-26J-441/swc-studio-backend/config"
)

func TestDSN(t *testing.T) {
	cfg := &config.DatabaseConfig{Host: "db", Port: 5433, User: "swc", Password: "pw", Name: "studio"}
	assert.Equal(t, "host=db port=5433 user=swc password=pw dbname=studio sslmode=disable", DSN(cfg))

	cfg.SSLMode = "require"
	assert.Contains(t, DSN(cfg), "sslmode=require")

	cfg.DSN = "postgres://swc@db/studio"
	assert.Equal(t, "postgres://swc@db/studio", DSN(cfg))
}
