package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/transfers_backend/config"
)

func TestDSN(t *testing.T) {
	cfg := Config{Host: "db", Port: 5432, User: "app", Password: "p@ss word", DBName: "transfers"}
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/transfers?sslmode=disable", cfg.DSN())

	cfg.SSLMode = "require"
	assert.Contains(t, cfg.DSN(), "sslmode=require")
}

func TestFromCentralConfig(t *testing.T) {
	c := config.DatabaseConfig{Host: "h", Port: 1, DBName: "d"}
	c.Pool.MaxOpenConns = 7
	c.Migrations.SafeMode = true

	got := FromCentralConfig(c)
	assert.Equal(t, 7, got.MaxOpenConns)
	assert.True(t, got.SafeMode)
	assert.Equal(t, "postgres", got.WithDB("postgres").DBName)
	assert.Equal(t, "d", got.DBName)
}

func TestCreateDatabaseIfNotExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("transfers").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`CREATE DATABASE "transfers"`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, createDatabaseIfNotExists(context.Background(), db, "transfers"))

	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("casbin").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	require.NoError(t, createDatabaseIfNotExists(context.Background(), db, "casbin"))

	assert.NoError(t, mock.ExpectationsWereMet())
}
