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
	"strings"

	"github.com/tomoncle/dbseed/bootstrap"
	"github.com/tomoncle/dbseed/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/schema"
)

var _ bootstrap.Store = (*SQLStore)(nil)

// SQLStore runs the bootstrap steps against a relational database. A
// collection becomes the table of its registered model and roles become
// grants.
type SQLStore struct {
	db       *bun.DB
	logger   Logger
	database string
}

func NewSQLStore(db *bun.DB, logger Logger) *SQLStore {
	return &SQLStore{db: db, logger: logger}
}

// DB returns the underlying Bun database.
func (s *SQLStore) DB() *bun.DB {
	return s.db
}

// UseDatabase checks that the connection is bound to name. SQLite files have
// a single database so any name is accepted.
func (s *SQLStore) UseDatabase(ctx context.Context, name string) error {
	if s.db == nil {
		return ErrNotConnected
	}

	var query string
	switch s.db.Dialect().Name() {
	case dialect.PG:
		query = "SELECT current_database()"
	case dialect.MySQL:
		query = "SELECT DATABASE()"
	default:
		s.database = name
		return nil
	}

	var current sql.NullString
	if err := s.db.QueryRowContext(ctx, query).Scan(&current); err != nil {
		return err
	}
	if current.String != name {
		return fmt.Errorf("%w: want %q, connected to %q", ErrDatabaseMismatch, name, current.String)
	}
	s.database = name
	return nil
}

func (s *SQLStore) CreateUser(ctx context.Context, user bootstrap.UserSpec) error {
	if s.db == nil {
		return ErrNotConnected
	}
	if s.database == "" {
		return ErrNoDatabase
	}

	pg := s.db.Dialect().Name() == dialect.PG
	roles := make([]types.Role, 0, len(user.Roles))
	for _, grant := range user.Roles {
		role := types.ParseRole(grant.Role)
		if !role.IsValid() {
			return fmt.Errorf("%w: %s", ErrUnknownRole, grant.Role)
		}
		// A PostgreSQL connection can only grant on the database it is bound to.
		if pg && grant.DB != "" && grant.DB != s.database {
			return fmt.Errorf("%w: role %s", ErrDatabaseMismatch, grant)
		}
		roles = append(roles, role)
	}

	switch s.db.Dialect().Name() {
	case dialect.PG:
		return s.createPostgresUser(ctx, user, roles)
	case dialect.MySQL:
		return s.createMySQLUser(ctx, user, roles)
	default:
		return fmt.Errorf("%w: %s has no database users", ErrUnsupported, s.db.Dialect().Name())
	}
}

func (s *SQLStore) createPostgresUser(ctx context.Context, user bootstrap.UserSpec, roles []types.Role) error {
	name := bun.Ident(user.Name)
	if _, err := s.db.ExecContext(ctx, "CREATE USER ? WITH PASSWORD ?", name, user.Password); err != nil {
		return err
	}

	for i, role := range roles {
		stmts := postgresGrants(role, s.database, user.Name)
		for _, stmt := range stmts {
			if _, err := s.db.ExecContext(ctx, stmt.Query, stmt.Args...); err != nil {
				return fmt.Errorf("grant %s: %w", user.Roles[i], err)
			}
		}
	}
	s.logCreated(user)
	return nil
}

// postgresGrants returns the statements granting role on database to user.
func postgresGrants(role types.Role, database, user string) []schema.QueryWithArgs {
	name, db := bun.Ident(user), bun.Ident(database)
	switch role {
	case types.RoleRead:
		return []schema.QueryWithArgs{
			bun.SafeQuery("GRANT SELECT ON ALL TABLES IN SCHEMA public TO ?", name),
			bun.SafeQuery("ALTER DEFAULT PRIVILEGES IN SCHEMA public GRANT SELECT ON TABLES TO ?", name),
		}
	case types.RoleReadWrite:
		return []schema.QueryWithArgs{
			bun.SafeQuery("GRANT SELECT, INSERT, UPDATE, DELETE ON ALL TABLES IN SCHEMA public TO ?", name),
			bun.SafeQuery("GRANT USAGE, SELECT ON ALL SEQUENCES IN SCHEMA public TO ?", name),
			bun.SafeQuery("ALTER DEFAULT PRIVILEGES IN SCHEMA public GRANT SELECT, INSERT, UPDATE, DELETE ON TABLES TO ?", name),
			bun.SafeQuery("ALTER DEFAULT PRIVILEGES IN SCHEMA public GRANT USAGE, SELECT ON SEQUENCES TO ?", name),
		}
	case types.RoleDBAdmin:
		return []schema.QueryWithArgs{
			bun.SafeQuery("GRANT ALL PRIVILEGES ON DATABASE ? TO ?", db, name),
			bun.SafeQuery("GRANT CREATE, USAGE ON SCHEMA public TO ?", name),
		}
	case types.RoleDBOwner:
		return []schema.QueryWithArgs{bun.SafeQuery("ALTER DATABASE ? OWNER TO ?", db, name)}
	case types.RoleUserAdmin:
		return []schema.QueryWithArgs{bun.SafeQuery("ALTER USER ? CREATEROLE", name)}
	}
	return nil
}

var mysqlPrivileges = map[types.Role]string{
	types.RoleRead:      "SELECT",
	types.RoleReadWrite: "SELECT, INSERT, UPDATE, DELETE",
	types.RoleDBAdmin:   "CREATE, ALTER, DROP, INDEX, REFERENCES, CREATE VIEW, SHOW VIEW, TRIGGER, EVENT",
	types.RoleDBOwner:   "ALL PRIVILEGES",
}

func (s *SQLStore) createMySQLUser(ctx context.Context, user bootstrap.UserSpec, roles []types.Role) error {
	name, host := bun.Ident(user.Name), bun.Ident("%")
	if _, err := s.db.ExecContext(ctx, "CREATE USER ?@? IDENTIFIED BY ?", name, host, user.Password); err != nil {
		return err
	}

	for i, role := range roles {
		var err error
		if role == types.RoleUserAdmin {
			_, err = s.db.ExecContext(ctx, "GRANT CREATE USER ON *.* TO ?@?", name, host)
		} else {
			db := user.Roles[i].DB
			if db == "" {
				db = s.database
			}
			_, err = s.db.ExecContext(ctx, "GRANT "+mysqlPrivileges[role]+" ON ?.* TO ?@?", bun.Ident(db), name, host)
		}
		if err != nil {
			return fmt.Errorf("grant %s: %w", user.Roles[i], err)
		}
	}
	s.logCreated(user)
	return nil
}

func (s *SQLStore) logCreated(user bootstrap.UserSpec) {
	if s.logger == nil {
		return
	}
	grants := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		grants = append(grants, r.String())
	}
	s.logger.Debug("Database user created", "user", user.Name, "roles", strings.Join(grants, ","))
}

// CreateCollection creates a table named name from the columns of the model
// registered for name. An existing table is an error.
func (s *SQLStore) CreateCollection(ctx context.Context, name string) error {
	if s.db == nil {
		return ErrNotConnected
	}
	if s.database == "" {
		return ErrNoDatabase
	}
	model, ok := defaultRegistry.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	_, err := s.db.NewCreateTable().
		Model(model).
		ModelTableExpr("?", bun.Ident(name)).
		Exec(ctx)
	return err
}

// CreateIndex creates the index on the collection's table and returns its
// name. An existing index of the same name is an error.
func (s *SQLStore) CreateIndex(ctx context.Context, collection string, index bootstrap.IndexSpec) (string, error) {
	if s.db == nil {
		return "", ErrNotConnected
	}
	if s.database == "" {
		return "", ErrNoDatabase
	}
	if len(index.Keys) == 0 {
		return "", fmt.Errorf("index on %s has no keys", collection)
	}

	name := index.Name
	if name == "" {
		name = index.DefaultName(collection)
	}

	columns := make([]string, 0, len(index.Keys))
	args := []interface{}{bun.Ident(name), bun.Ident(collection)}
	for _, key := range index.Keys {
		if key.Order < 0 {
			columns = append(columns, "? DESC")
		} else {
			columns = append(columns, "?")
		}
		args = append(args, bun.Ident(key.Field))
	}

	query := "CREATE INDEX ? ON ? (" + strings.Join(columns, ", ") + ")"
	if index.Unique {
		query = "CREATE UNIQUE INDEX ? ON ? (" + strings.Join(columns, ", ") + ")"
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return "", err
	}
	return name, nil
}
