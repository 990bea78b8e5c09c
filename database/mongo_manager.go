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
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/tomoncle/dbseed/bootstrap"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type mongoManager struct {
	config    *ConnectionConfig
	client    *mongo.Client
	logger    Logger
	mu        sync.RWMutex
	connected bool
}

// NewMongoManager returns a manager for a MongoDB deployment.
func NewMongoManager(config *ConnectionConfig) AbstractDatabaseManager {
	if config == nil {
		config = DefaultConnectionConfig()
	}
	return &mongoManager{config: config}
}

func (mm *mongoManager) Type() string {
	return TypeMongoDB
}

// mongoURI returns the configured URI or one assembled from host, port and
// credentials.
func mongoURI(cfg *ConnectionConfig) string {
	if cfg.URI != "" {
		return cfg.URI
	}
	port := cfg.Port
	if port == 0 {
		port = 27017
	}
	u := url.URL{
		Scheme: "mongodb",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		Path:   "/",
	}
	if cfg.Username != "" {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
		if cfg.AuthSource != "" {
			u.RawQuery = url.Values{"authSource": {cfg.AuthSource}}.Encode()
		}
	}
	return u.String()
}

var credentialsPattern = regexp.MustCompile(`:[^/@:]+@`)

// MaskURI hides the password of a connection URI.
func MaskURI(uri string) string {
	return credentialsPattern.ReplaceAllString(uri, ":****@")
}

func (mm *mongoManager) Connect(ctx context.Context) error {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	if mm.connected && mm.client != nil {
		return nil
	}

	if mm.config.ConnectTimeout <= 0 {
		mm.config.ConnectTimeout = 30 * time.Second
	}

	uri := mongoURI(mm.config)
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(mm.config.ConnectTimeout).
		SetServerSelectionTimeout(mm.config.ConnectTimeout)
	if mm.config.WriteTimeout > 0 {
		opts.SetTimeout(mm.config.WriteTimeout)
	}
	if mm.config.MaxOpenConns > 0 {
		opts.SetMaxPoolSize(uint64(mm.config.MaxOpenConns))
	}
	if mm.config.ConnMaxIdleTime > 0 {
		opts.SetMaxConnIdleTime(mm.config.ConnMaxIdleTime)
	}
	if mm.logger != nil && (mm.config.EnableQueryLog || mm.config.SlowQueryTime > 0) {
		opts.SetMonitor(newCommandMonitor(mm.logger, mm.config.SlowQueryTime))
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, mm.config.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctxTimeout, opts)
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}
	if err := client.Ping(ctxTimeout, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("database connection test failed: %w", err)
	}

	mm.client = client
	mm.connected = true
	if mm.logger != nil {
		mm.logger.Info("Database connected successfully", "type", TypeMongoDB, "uri", MaskURI(uri))
	}
	return nil
}

func (mm *mongoManager) Disconnect() error {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	if mm.client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), mm.config.ConnectTimeout)
	defer cancel()

	err := mm.client.Disconnect(ctx)
	mm.client = nil
	mm.connected = false

	if mm.logger != nil {
		if err != nil {
			mm.logger.Error("Failed to close database connection", "error", err)
		} else {
			mm.logger.Info("Database connection closed")
		}
	}
	return err
}

func (mm *mongoManager) Ping(ctx context.Context) error {
	client := mm.Client()
	if client == nil {
		return ErrNotConnected
	}
	return client.Ping(ctx, readpref.Primary())
}

// Client returns the driver client, or nil before Connect.
func (mm *mongoManager) Client() *mongo.Client {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return mm.client
}

func (mm *mongoManager) Store() bootstrap.Store {
	client := mm.Client()
	if client == nil {
		return nil
	}
	return NewMongoStore(client)
}

func (mm *mongoManager) SetLogger(logger Logger) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.logger = logger
}
