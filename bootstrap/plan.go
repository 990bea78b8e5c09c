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
	"fmt"
	"strings"
)

const (
	DefaultDatabase   = "productdb"
	DefaultUsername   = "admin"
	DefaultPassword   = "password"
	DefaultCollection = "products"
	DefaultIndexField = "sku"
	DefaultMessage    = "MongoDB initialization completed successfully!"
)

// Ascending and Descending are the sort directions of an index key.
const (
	Ascending  = 1
	Descending = -1
)

// RoleGrant associates a role with the database it applies to.
type RoleGrant struct {
	Role string `json:"role" yaml:"role"`
	DB   string `json:"db" yaml:"db"`
}

func (g RoleGrant) String() string {
	return g.Role + "@" + g.DB
}

// UserSpec describes the administrative principal to create. Roles are
// granted in order.
type UserSpec struct {
	Name     string      `json:"name" yaml:"name"`
	Password string      `json:"password" yaml:"password"`
	Roles    []RoleGrant `json:"roles" yaml:"roles"`
}

// IndexKey is a single field of an index and its sort direction.
type IndexKey struct {
	Field string `json:"field" yaml:"field"`
	Order int    `json:"order" yaml:"order"`
}

// IndexSpec describes an index on a collection. Name is optional; when it is
// empty the store picks one.
type IndexSpec struct {
	Name   string     `json:"name,omitempty" yaml:"name,omitempty"`
	Keys   []IndexKey `json:"keys" yaml:"keys"`
	Unique bool       `json:"unique" yaml:"unique"`
}

// DefaultName builds a name from the collection and the keys, e.g.
// "products_sku_1".
func (s IndexSpec) DefaultName(collection string) string {
	parts := []string{collection}
	for _, k := range s.Keys {
		parts = append(parts, fmt.Sprintf("%s_%d", k.Field, k.Order))
	}
	return strings.Join(parts, "_")
}

// Plan is everything the initializer asks the store to create.
type Plan struct {
	Database   string    `json:"database" yaml:"database"`
	User       UserSpec  `json:"user" yaml:"user"`
	Collection string    `json:"collection" yaml:"collection"`
	Index      IndexSpec `json:"index" yaml:"index"`
	Message    string    `json:"message" yaml:"message"`
}

// DefaultPlan returns the product store plan: an admin user with readWrite
// and dbAdmin on productdb, a products collection and a unique index on sku.
func DefaultPlan() Plan {
	return Plan{
		Database: DefaultDatabase,
		User: UserSpec{
			Name:     DefaultUsername,
			Password: DefaultPassword,
			Roles: []RoleGrant{
				{Role: "readWrite", DB: DefaultDatabase},
				{Role: "dbAdmin", DB: DefaultDatabase},
			},
		},
		Collection: DefaultCollection,
		Index: IndexSpec{
			Keys:   []IndexKey{{Field: DefaultIndexField, Order: Ascending}},
			Unique: true,
		},
		Message: DefaultMessage,
	}
}
