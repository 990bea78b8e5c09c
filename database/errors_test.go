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
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		is   bool
		kind ErrorKind
	}{
		{"nil", nil, false, UnknownErr},
		{"plain", errors.New("boom"), false, UnknownErr},
		{"no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), true, NoRowsErr},
		{"mongo user exists", mongo.CommandError{Code: 51003, Name: "Location51003"}, true, ExistUserErr},
		{"mongo namespace exists", mongo.CommandError{Code: 48, Name: "NamespaceExists"}, true, ExistTableErr},
		{"mongo index conflict", mongo.CommandError{Code: 86, Name: "IndexKeySpecsConflict"}, true, ExistIndexErr},
		{"mongo unauthorized", mongo.CommandError{Code: 13, Name: "Unauthorized"}, true, UnauthorizedErr},
		{"mongo duplicate key", mongo.CommandError{Code: 11000, Message: "E11000 duplicate key error"}, true, DuplicateKeyErr},
		{"mysql user exists", &mysql.MySQLError{Number: 1396}, true, ExistUserErr},
		{"mysql table exists", &mysql.MySQLError{Number: 1050}, true, ExistTableErr},
		{"mysql duplicate", fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062}), true, DuplicateKeyErr},
		{"postgres role exists", &pq.Error{Code: "42710"}, true, ExistUserErr},
		{"postgres relation exists", &pq.Error{Code: "42P07"}, true, ExistTableErr},
		{"postgres unique", &pq.Error{Code: "23505"}, true, DuplicateKeyErr},
		{"sqlite table exists", errors.New("SQL logic error: table products already exists (1)"), true, ExistTableErr},
		{"sqlite index exists", errors.New("index products_sku_1 already exists"), true, ExistIndexErr},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: products.sku (2067)"), true, DuplicateKeyErr},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			is, kind := Classify(tc.err)
			assert.Equal(t, tc.is, is)
			assert.Equal(t, tc.kind, kind)
		})
	}
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "user-exists", ExistUserErr.String())
	assert.Equal(t, "collection-exists", ExistTableErr.String())
	assert.Equal(t, "unknown", ErrorKind(99).String())
}
