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
	"time"

	"github.com/tomoncle/dbseed/types"
	"github.com/uptrace/bun"
)

// Product is a catalog record of the products collection. SKU carries the
// unique index.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p" bson:"-"`

	ID             int64            `bun:"id,pk,autoincrement" bson:"-" json:"id"`
	SKU            string           `bun:"sku,notnull" bson:"sku" json:"sku"`
	Name           string           `bun:"name,notnull" bson:"name" json:"name"`
	Description    string           `bun:"description" bson:"description,omitempty" json:"description"`
	CategoryID     string           `bun:"category_id" bson:"categoryId,omitempty" json:"category_id"`
	Price          float64          `bun:"price" bson:"price" json:"price"`
	Currency       string           `bun:"currency" bson:"currency,omitempty" json:"currency"`
	Quantity       int              `bun:"quantity,notnull,default:0" bson:"quantity" json:"quantity"`
	Status         string           `bun:"status,notnull,default:'DRAFT'" bson:"status" json:"status"`
	Specifications types.JsonObject `bun:"specifications,type:text" bson:"specifications,omitempty" json:"specifications"`
	CreatedAt      time.Time        `bun:"created_at,nullzero,notnull,default:current_timestamp" bson:"createdAt" json:"created_at"`
	UpdatedAt      time.Time        `bun:"updated_at,nullzero,notnull,default:current_timestamp" bson:"updatedAt" json:"updated_at"`
}

func init() {
	RegisterModel("products", (*Product)(nil))
}
