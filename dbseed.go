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

// Package dbseed bootstraps a database server for the product store: it
// connects, creates the application user, the products collection and its
// unique sku index, then prints a completion message.
package dbseed

import (
	"context"
	"fmt"
	"io"

	"github.com/tomoncle/dbseed/bootstrap"
	"github.com/tomoncle/dbseed/database"
)

// Run connects with cfg, runs the bootstrap plan and disconnects. The
// completion message is written to out only when every step succeeded.
func Run(ctx context.Context, cfg *database.Config, out io.Writer) (err error) {
	factory, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := factory.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	store := factory.Store()
	if store == nil {
		return fmt.Errorf("database %s has no store", cfg.ConnectionConfig.Type)
	}

	return bootstrap.NewInitializer(store, cfg.Bootstrap,
		bootstrap.WithLogger(database.GetLogger()),
		bootstrap.WithOutput(out),
	).Run(ctx)
}
