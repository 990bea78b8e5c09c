/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/tomoncle/dbseed/bootstrap"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type defaultDatabaseManager struct {
	config    *ConnectionConfig
	db        *bun.DB
	sqlDB     *sql.DB
	logger    Logger
	mu        sync.RWMutex
	connected bool
}

// NewDatabaseManager returns a Bun backed manager for MySQL, PostgreSQL or
// SQLite. If config is nil, a sensible default configuration is used.
func NewDatabaseManager(config *ConnectionConfig) AbstractDatabaseManager {
	if config == nil {
		config = DefaultConnectionConfig()
	}
	return &defaultDatabaseManager{
		config: config,
	}
}

func (dm *defaultDatabaseManager) Type() string {
	return dm.config.Type
}

func (dm *defaultDatabaseManager) Connect(ctx context.Context) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.connected && dm.db != nil {
		return nil
	}

	if dm.config.ConnectTimeout <= 0 {
		dm.config.ConnectTimeout = 30 * time.Second
	}

	if dm.config.AutoCreate && dm.config.Type != TypeSQLite {
		if err := dm.ensureDatabase(ctx); err != nil {
			return fmt.Errorf("failed to create database %s: %w", dm.config.DBName, err)
		}
	}

	var err error
	dm.sqlDB, dm.db, err = dm.createConnection(dm.config.DBName)
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}

	dm.configureConnectionPool()
	dm.addQueryHooks()

	ctxTimeout, cancel := context.WithTimeout(ctx, dm.config.ConnectTimeout)
	defer cancel()

	if err := dm.db.PingContext(ctxTimeout); err != nil {
		_ = dm.db.Close()
		dm.db, dm.sqlDB = nil, nil
		return fmt.Errorf("database connection test failed: %w", err)
	}

	dm.connected = true
	if dm.logger != nil {
		dm.logger.Info("Database connected successfully", "type", dm.config.Type, "host", dm.config.Host, "dbname", dm.config.DBName)
	}
	return nil
}

func (dm *defaultDatabaseManager) createConnection(dbName string) (*sql.DB, *bun.DB, error) {
	switch dm.config.Type {
	case TypeMySQL:
		return dm.createMySQLConnection(dbName)
	case TypePostgres:
		return dm.createPostgreSQLConnection(dbName)
	case TypeSQLite:
		return dm.createSQLiteConnection(dbName)
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", dm.config.Type)
	}
}

func (dm *defaultDatabaseManager) createMySQLConnection(dbName string) (*sql.DB, *bun.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%s&readTimeout=%s&writeTimeout=%s",
		dm.config.Username,
		dm.config.Password,
		dm.config.Host,
		dm.config.Port,
		dbName,
		dm.config.ConnectTimeout,
		dm.config.ReadTimeout,
		dm.config.WriteTimeout,
	)

	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, nil, err
	}
	return sqlDB, bun.NewDB(sqlDB, mysqldialect.New()), nil
}

func (dm *defaultDatabaseManager) createPostgreSQLConnection(dbName string) (*sql.DB, *bun.DB, error) {
	sslMode := dm.config.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("postgres://%s@%s:%d/%s?sslmode=%s&connect_timeout=%d",
		url.UserPassword(dm.config.Username, dm.config.Password).String(),
		dm.config.Host,
		dm.config.Port,
		url.PathEscape(dbName),
		sslMode,
		int(dm.config.ConnectTimeout.Seconds()),
	)

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, err
	}
	return sqlDB, bun.NewDB(sqlDB, pgdialect.New()), nil
}

func (dm *defaultDatabaseManager) createSQLiteConnection(dbName string) (*sql.DB, *bun.DB, error) {
	dsn := fmt.Sprintf("%s.db", dbName)
	switch {
	case dbName == ":memory:":
		dsn = "file::memory:?cache=shared"
	case strings.HasPrefix(dbName, "file:"):
		dsn = dbName
	}

	sqlDB, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, nil, err
	}
	return sqlDB, bun.NewDB(sqlDB, sqlitedialect.New()), nil
}

// ensureDatabase creates the target database through a connection to the
// server's maintenance database.
func (dm *defaultDatabaseManager) ensureDatabase(ctx context.Context) error {
	var maintenance string
	if dm.config.Type == TypePostgres {
		maintenance = "postgres"
	}
	sqlDB, db, err := dm.createConnection(maintenance)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	ctx, cancel := context.WithTimeout(ctx, dm.config.ConnectTimeout)
	defer cancel()

	name := dm.config.DBName
	switch dm.config.Type {
	case TypeMySQL:
		query := "CREATE DATABASE IF NOT EXISTS ?"
		args := []interface{}{bun.Ident(name)}
		if dm.config.Charset != "" {
			query += " CHARACTER SET ?"
			args = append(args, dm.config.Charset)
		}
		_, err = db.ExecContext(ctx, query, args...)
		return err
	case TypePostgres:
		var exists bool
		err := db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = ?)", name).Scan(&exists)
		if err != nil || exists {
			return err
		}
		query := "CREATE DATABASE ?"
		args := []interface{}{bun.Ident(name)}
		if dm.config.Template != "" {
			query += " TEMPLATE ?"
			args = append(args, bun.Ident(dm.config.Template))
		}
		if dm.config.Charset != "" {
			query += " ENCODING ?"
			args = append(args, dm.config.Charset)
		}
		_, err = db.ExecContext(ctx, query, args...)
		if err == nil && dm.logger != nil {
			dm.logger.Info("Database created", "dbname", name)
		}
		return err
	}
	return nil
}

func (dm *defaultDatabaseManager) configureConnectionPool() {
	if dm.sqlDB == nil {
		return
	}

	dm.sqlDB.SetMaxIdleConns(dm.config.MaxIdleConns)
	dm.sqlDB.SetMaxOpenConns(dm.config.MaxOpenConns)
	dm.sqlDB.SetConnMaxLifetime(dm.config.ConnMaxLifetime)
	dm.sqlDB.SetConnMaxIdleTime(dm.config.ConnMaxIdleTime)
}

func (dm *defaultDatabaseManager) addQueryHooks() {
	if dm.config.EnableQueryLog {
		dm.db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
	}

	if dm.config.SlowQueryTime > 0 {
		dm.db.AddQueryHook(&slowQueryHook{
			slowTime: dm.config.SlowQueryTime,
			logger:   dm.logger,
		})
	}
}

func (dm *defaultDatabaseManager) Disconnect() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.db == nil {
		return nil
	}

	err := dm.db.Close()
	dm.db = nil
	dm.sqlDB = nil
	dm.connected = false

	if dm.logger != nil {
		if err != nil {
			dm.logger.Error("Failed to close database connection", "error", err)
		} else {
			dm.logger.Info("Database connection closed")
		}
	}
	return err
}

func (dm *defaultDatabaseManager) Ping(ctx context.Context) error {
	db := dm.GetDB()
	if db == nil {
		return ErrNotConnected
	}
	return db.PingContext(ctx)
}

// GetDB returns the Bun database, or nil before Connect.
func (dm *defaultDatabaseManager) GetDB() *bun.DB {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.db
}

func (dm *defaultDatabaseManager) Store() bootstrap.Store {
	db := dm.GetDB()
	if db == nil {
		return nil
	}
	return NewSQLStore(db, dm.logger)
}

func (dm *defaultDatabaseManager) SetLogger(logger Logger) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.logger = logger
}
