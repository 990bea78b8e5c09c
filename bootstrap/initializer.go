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

package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// Store is the administrative interface of the target database server.
// Every call blocks until the server acknowledges it.
type Store interface {
	// UseDatabase selects the logical database the following calls act on.
	UseDatabase(ctx context.Context, name string) error

	// CreateUser creates a principal with the given role grants.
	CreateUser(ctx context.Context, user UserSpec) error

	// CreateCollection creates an empty named collection.
	CreateCollection(ctx context.Context, name string) error

	// CreateIndex creates an index on the collection and returns its name.
	CreateIndex(ctx context.Context, collection string, index IndexSpec) (string, error)
}

// Logger is the subset of the database logger the initializer writes to.
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Step identifies one of the setup calls.
type Step int

const (
	StepSelectDatabase Step = iota + 1
	StepCreateUser
	StepCreateCollection
	StepCreateIndex
)

func (s Step) String() string {
	switch s {
	case StepSelectDatabase:
		return "select-database"
	case StepCreateUser:
		return "create-user"
	case StepCreateCollection:
		return "create-collection"
	case StepCreateIndex:
		return "create-index"
	default:
		return "unknown"
	}
}

// StepError reports the step that failed. It unwraps to the store error.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Option configures an Initializer.
type Option func(*Initializer)

// WithLogger sets the logger used to report progress.
func WithLogger(logger Logger) Option {
	return func(i *Initializer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithOutput sets where the confirmation message is written. Defaults to
// os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(i *Initializer) {
		if w != nil {
			i.out = w
		}
	}
}

// Initializer runs a Plan against a Store.
type Initializer struct {
	store  Store
	plan   Plan
	logger Logger
	out    io.Writer
}

// NewInitializer returns an initializer for the plan.
func NewInitializer(store Store, plan Plan, opts ...Option) *Initializer {
	i := &Initializer{
		store:  store,
		plan:   plan,
		logger: nopLogger{},
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Plan returns the plan the initializer runs.
func (i *Initializer) Plan() Plan {
	return i.plan
}

// Run selects the database, creates the user, the collection and the index,
// in that order, then writes the confirmation message. The first failure
// stops the run; steps already applied are left in place.
func (i *Initializer) Run(ctx context.Context) error {
	start := time.Now()
	p := i.plan

	if err := i.step(StepSelectDatabase, func() error {
		return i.store.UseDatabase(ctx, p.Database)
	}, "database", p.Database); err != nil {
		return err
	}

	if err := i.step(StepCreateUser, func() error {
		return i.store.CreateUser(ctx, p.User)
	}, "user", p.User.Name, "roles", p.User.Roles); err != nil {
		return err
	}

	if err := i.step(StepCreateCollection, func() error {
		return i.store.CreateCollection(ctx, p.Collection)
	}, "collection", p.Collection); err != nil {
		return err
	}

	var indexName string
	if err := i.step(StepCreateIndex, func() (err error) {
		indexName, err = i.store.CreateIndex(ctx, p.Collection, p.Index)
		return err
	}, "collection", p.Collection, "keys", p.Index.Keys, "unique", p.Index.Unique); err != nil {
		return err
	}

	i.logger.Info("Bootstrap completed", "index", indexName, "duration", time.Since(start))
	_, err := fmt.Fprintln(i.out, p.Message)
	return err
}

func (i *Initializer) step(step Step, fn func() error, fields ...interface{}) error {
	if err := fn(); err != nil {
		i.logger.Error("Bootstrap step failed", append([]interface{}{"step", step, "error", err}, fields...)...)
		return &StepError{Step: step, Err: err}
	}
	i.logger.Info("Bootstrap step done", append([]interface{}{"step", step}, fields...)...)
	return nil
}
