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

package types

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// Role is a built-in database role a user can be granted.
type Role int

const (
	RoleRead Role = iota
	RoleReadWrite
	RoleDBAdmin
	RoleDBOwner
	RoleUserAdmin
)

var _ BaseEnum = Role(0)

var roleNames = map[Role]string{
	RoleRead:      "read",
	RoleReadWrite: "readWrite",
	RoleDBAdmin:   "dbAdmin",
	RoleDBOwner:   "dbOwner",
	RoleUserAdmin: "userAdmin",
}

var roleDescs = map[Role]string{
	RoleRead:      "read data in the database",
	RoleReadWrite: "read and modify data in the database",
	RoleDBAdmin:   "manage schema and indexes of the database",
	RoleDBOwner:   "any action on the database",
	RoleUserAdmin: "manage users and roles of the database",
}

// ParseRole returns the role with the given name, or IllegalValue.
func ParseRole(name string) Role {
	for r, n := range roleNames {
		if n == name {
			return r
		}
	}
	return IllegalValue
}

func (r Role) IsValid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) Number() int { return int(r) }

func (r Role) String() string { return r.Name() }

func (r Role) Name() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return IllegalName
}

func (r Role) Desc() string {
	if d, ok := roleDescs[r]; ok {
		return d
	}
	return IllegalDesc
}
