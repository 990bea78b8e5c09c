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

	"github.com/tomoncle/dbseed/bootstrap"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ bootstrap.Store = (*MongoStore)(nil)

// MongoStore issues the bootstrap commands to a MongoDB deployment.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStore(client *mongo.Client) *MongoStore {
	return &MongoStore{client: client}
}

// UseDatabase selects the database; like getSiblingDB it does not contact
// the server.
func (s *MongoStore) UseDatabase(_ context.Context, name string) error {
	if s.client == nil {
		return ErrNotConnected
	}
	s.db = s.client.Database(name)
	return nil
}

// Database returns the selected database, or nil.
func (s *MongoStore) Database() *mongo.Database {
	return s.db
}

func (s *MongoStore) CreateUser(ctx context.Context, user bootstrap.UserSpec) error {
	if s.db == nil {
		return ErrNoDatabase
	}
	return s.db.RunCommand(ctx, createUserCommand(user)).Err()
}

// createUserCommand builds the createUser command; roles keep their order.
func createUserCommand(user bootstrap.UserSpec) bson.D {
	roles := bson.A{}
	for _, r := range user.Roles {
		roles = append(roles, bson.D{{Key: "role", Value: r.Role}, {Key: "db", Value: r.DB}})
	}
	return bson.D{
		{Key: "createUser", Value: user.Name},
		{Key: "pwd", Value: user.Password},
		{Key: "roles", Value: roles},
	}
}

func (s *MongoStore) CreateCollection(ctx context.Context, name string) error {
	if s.db == nil {
		return ErrNoDatabase
	}
	return s.db.CreateCollection(ctx, name)
}

func (s *MongoStore) CreateIndex(ctx context.Context, collection string, index bootstrap.IndexSpec) (string, error) {
	if s.db == nil {
		return "", ErrNoDatabase
	}
	return s.db.Collection(collection).Indexes().CreateOne(ctx, indexModel(index))
}

func indexModel(index bootstrap.IndexSpec) mongo.IndexModel {
	keys := bson.D{}
	for _, k := range index.Keys {
		keys = append(keys, bson.E{Key: k.Field, Value: k.Order})
	}
	opts := options.Index().SetUnique(index.Unique)
	if index.Name != "" {
		opts.SetName(index.Name)
	}
	return mongo.IndexModel{Keys: keys, Options: opts}
}
