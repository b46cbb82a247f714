package database

import (
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN("pins", "s3cret", "db.internal", "3306", "pinboard")

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "pins", cfg.User)
	assert.Equal(t, "s3cret", cfg.Passwd)
	assert.Equal(t, "db.internal:3306", cfg.Addr)
	assert.Equal(t, "pinboard", cfg.DBName)
	assert.True(t, cfg.ParseTime)
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestDSNWithoutPassword(t *testing.T) {
	dsn := DSN("pins", "", "localhost", "3306", "pinboard")
	assert.Contains(t, dsn, "pins@tcp(localhost:3306)/pinboard")
}
