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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleReadWrite, ParseRole("readWrite"))
	assert.Equal(t, RoleDBAdmin, ParseRole("dbAdmin"))
	assert.True(t, ParseRole("dbAdmin").IsValid())

	unknown := ParseRole("clusterAdmin")
	assert.False(t, unknown.IsValid())
	assert.Equal(t, IllegalName, unknown.Name())
	assert.Equal(t, IllegalDesc, unknown.Desc())
}

func TestJsonObjectRoundTrip(t *testing.T) {
	in := JsonObject{"color": "red"}
	v, err := in.Value()
	assert.NoError(t, err)

	var out JsonObject
	assert.NoError(t, out.Scan(v))
	assert.Equal(t, "red", out["color"])

	var empty JsonObject
	assert.NoError(t, empty.Scan(nil))
	assert.NotNil(t, empty)
}
