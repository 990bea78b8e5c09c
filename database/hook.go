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
	"time"

	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/event"
)

var _ bun.QueryHook = (*slowQueryHook)(nil)

type slowQueryHook struct {
	slowTime time.Duration
	logger   Logger
}

func (h *slowQueryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *slowQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if event.Err != nil || h.logger == nil {
		return
	}

	duration := time.Since(event.StartTime)
	if duration > h.slowTime {
		h.logger.Warn("Database slow query detected",
			"duration", duration,
			"slow_threshold", h.slowTime,
			"query", event.Query,
		)
	}
}

// newCommandMonitor logs every command sent to MongoDB. Command bodies are
// not logged: createUser carries the password.
func newCommandMonitor(logger Logger, slowTime time.Duration) *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(_ context.Context, e *event.CommandStartedEvent) {
			logger.Debug("Mongo command started", "command", e.CommandName, "db", e.DatabaseName, "request_id", e.RequestID)
		},
		Succeeded: func(_ context.Context, e *event.CommandSucceededEvent) {
			fields := []interface{}{"command", e.CommandName, "duration", e.Duration, "request_id", e.RequestID}
			if slowTime > 0 && e.Duration > slowTime {
				logger.Warn("Database slow command detected", fields...)
				return
			}
			logger.Debug("Mongo command succeeded", fields...)
		},
		Failed: func(_ context.Context, e *event.CommandFailedEvent) {
			logger.Warn("Mongo command failed", "command", e.CommandName, "duration", e.Duration, "failure", e.Failure, "request_id", e.RequestID)
		},
	}
}
