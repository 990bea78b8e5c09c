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
	"sort"
	"sync"
)

var defaultRegistry = newModelRegistry()

// ModelRegistry maps collection names to the Bun models SQL stores create
// tables from. Documents stores need no model.
type ModelRegistry interface {
	Register(collection string, model interface{})
	Lookup(collection string) (interface{}, bool)
	Collections() []string
}

type modelRegistry struct {
	models map[string]interface{}
	mutex  sync.RWMutex
}

func newModelRegistry() ModelRegistry {
	return &modelRegistry{
		models: make(map[string]interface{}),
	}
}

func (r *modelRegistry) Register(collection string, model interface{}) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.models[collection] = model
}

func (r *modelRegistry) Lookup(collection string) (interface{}, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	m, ok := r.models[collection]
	return m, ok
}

func (r *modelRegistry) Collections() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]string, 0, len(r.models))
	for name := range r.models {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// RegisterModel maps a collection to a model, e.g.
// RegisterModel("products", (*Product)(nil)). The model's table name is
// replaced by the collection name.
func RegisterModel(collection string, model interface{}) {
	defaultRegistry.Register(collection, model)
}

// RegisteredCollections returns the collections with a registered model.
func RegisteredCollections() []string {
	return defaultRegistry.Collections()
}
