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

package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoRepository reads and writes documents of one collection.
type MongoRepository[T any] struct {
	coll *mongo.Collection
}

// NewMongoRepository returns a repository over db.collection.
func NewMongoRepository[T any](db *mongo.Database, collection string) *MongoRepository[T] {
	return &MongoRepository[T]{coll: db.Collection(collection)}
}

var _ DocumentRepository[struct{}] = (*MongoRepository[struct{}])(nil)

// Collection returns the underlying driver collection.
func (r *MongoRepository[T]) Collection() *mongo.Collection {
	return r.coll
}

func (r *MongoRepository[T]) FindOne(ctx context.Context, filter interface{}) (*T, error) {
	if filter == nil {
		filter = bson.D{}
	}
	var entity T
	if err := r.coll.FindOne(ctx, filter).Decode(&entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *MongoRepository[T]) Count(ctx context.Context, filter interface{}) (int64, error) {
	if filter == nil {
		filter = bson.D{}
	}
	return r.coll.CountDocuments(ctx, filter)
}

// Create inserts the documents in order and stops at the first failure. A
// unique index violation is returned as the driver reports it.
func (r *MongoRepository[T]) Create(ctx context.Context, entity ...*T) error {
	switch len(entity) {
	case 0:
		return nil
	case 1:
		_, err := r.coll.InsertOne(ctx, entity[0])
		return err
	}
	docs := make([]interface{}, 0, len(entity))
	for _, e := range entity {
		docs = append(docs, e)
	}
	_, err := r.coll.InsertMany(ctx, docs)
	return err
}
