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

package repository_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/dbseed/bootstrap"
	"github.com/tomoncle/dbseed/database"
	"github.com/tomoncle/dbseed/repository"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// bootstrappedDB returns an in-memory SQLite database holding the products
// table and its unique sku index.
func bootstrappedDB(t *testing.T) *bun.DB {
	t.Helper()
	sqlDB, err := sql.Open(sqliteshim.ShimName, fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	plan := bootstrap.DefaultPlan()
	store := database.NewSQLStore(db, nil)
	require.NoError(t, store.UseDatabase(ctx, plan.Database))
	require.NoError(t, store.CreateCollection(ctx, plan.Collection))
	_, err = store.CreateIndex(ctx, plan.Collection, plan.Index)
	require.NoError(t, err)
	return db
}

func TestRepositoryCreateAndQuery(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository[database.Product](bootstrappedDB(t))

	require.NoError(t, repo.Create(ctx))
	require.NoError(t, repo.Create(ctx,
		&database.Product{SKU: "SKU-001", Name: "Keyboard", Price: 49.9},
		&database.Product{SKU: "SKU-002", Name: "Mouse", Price: 19.9},
	))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := repo.Query(ctx, "sku = ?", "SKU-002")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Mouse", found[0].Name)

	one, err := repo.GetOne(ctx, found[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "SKU-002", one.SKU)

	_, err = repo.GetOne(ctx, 404)
	_, kind := database.Classify(err)
	assert.Equal(t, database.NoRowsErr, kind)
}

func TestRepositoryRejectsDuplicateSKU(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository[database.Product](bootstrappedDB(t))

	require.NoError(t, repo.Create(ctx, &database.Product{SKU: "SKU-001", Name: "Keyboard"}))
	err := repo.Create(ctx, &database.Product{SKU: "SKU-001", Name: "Another keyboard"})
	require.Error(t, err)
	_, kind := database.Classify(err)
	assert.Equal(t, database.DuplicateKeyErr, kind)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRepositoryUpsertOnSKU(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository[database.Product](bootstrappedDB(t))

	require.NoError(t, repo.Create(ctx, &database.Product{SKU: "SKU-001", Name: "Keyboard", Price: 49.9}))
	require.NoError(t, repo.Upsert(ctx, []string{"name", "price"}, []string{"sku"},
		&database.Product{SKU: "SKU-001", Name: "Mechanical keyboard", Price: 89.9}))

	found, err := repo.Query(ctx, "sku = ?", "SKU-001")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Mechanical keyboard", found[0].Name)
	assert.InDelta(t, 89.9, found[0].Price, 0.001)

	assert.Error(t, repo.Upsert(ctx, nil, []string{"sku"}, &database.Product{SKU: "SKU-001"}))
}
