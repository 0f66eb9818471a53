package testutils

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"terminal-terrace/conduit/internal/model"
	dbPkg "terminal-terrace/conduit/pkg/database"
)

// SetupTestDB creates an isolated in-memory sqlite database for one test.
// Every call gets its own named shared-cache database, so tests never see each other's rows.
// All tables are migrated before returning.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := dbPkg.Open(&dbPkg.Config{
		ServiceName: "conduit-test",
		Driver:      dbPkg.DriverSQLite,
		Database:    fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()),
		LogLevel:    "silent", // Suppress logs in tests
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := model.InitTable(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return db
}

// SetupTestPostgres creates an isolated schema on a real PostgreSQL server.
// Returns nil if PostgreSQL is not available (tests should skip in that case).
// Connection settings come from POSTGRES_HOST, POSTGRES_PORT, POSTGRES_USER,
// POSTGRES_PASSWORD and POSTGRES_DB.
func SetupTestPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	port, err := strconv.Atoi(getEnvOrDefault("POSTGRES_PORT", "5432"))
	if err != nil || port == 0 {
		port = 5432
	}
	base := dbPkg.Config{
		ServiceName: "conduit-test",
		Driver:      dbPkg.DriverPostgres,
		Host:        getEnvOrDefault("POSTGRES_HOST", "localhost"),
		Port:        port,
		Username:    getEnvOrDefault("POSTGRES_USER", "postgres"),
		Password:    getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
		Database:    getEnvOrDefault("POSTGRES_DB", "conduit_test"),
		LogLevel:    "silent",
	}

	adminConf := base
	admin, err := dbPkg.Open(&adminConf)
	if err != nil {
		return nil
	}

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := admin.Exec("CREATE SCHEMA " + schema).Error; err != nil {
		closeDB(admin)
		return nil
	}

	conf := base
	conf.Schema = schema
	db, err := dbPkg.Open(&conf)
	if err != nil {
		admin.Exec("DROP SCHEMA " + schema + " CASCADE")
		closeDB(admin)
		t.Fatalf("Failed to open test schema: %v", err)
	}
	t.Cleanup(func() {
		closeDB(db)
		admin.Exec("DROP SCHEMA " + schema + " CASCADE")
		closeDB(admin)
	})

	if err := model.InitTable(db); err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}
	return db
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

// SetupTestRedis creates a test Redis connection.
// Returns nil if Redis is not available (tests can skip Redis-dependent features)
func SetupTestRedis(t *testing.T) *dbPkg.RedisClient {
	t.Helper()

	redisHost := getEnvOrDefault("REDIS_HOST", "localhost")
	redisPort, err := strconv.Atoi(getEnvOrDefault("REDIS_PORT", "6379"))
	if err != nil || redisPort == 0 {
		redisPort = 6379
	}

	redisClient, err := dbPkg.InitRedis(context.Background(), &dbPkg.RedisConfig{
		ServiceName: "conduit-test",
		Host:        redisHost,
		Port:        redisPort,
		DB:          15,
	})
	if err != nil || redisClient == nil {
		return nil
	}

	t.Cleanup(func() {
		redisClient.FlushDB(context.Background())
		redisClient.Close()
	})
	return redisClient
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
