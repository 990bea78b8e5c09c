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

package utils

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("bogus"))
}

func TestLog4jFormatter(t *testing.T) {
	f := &Log4jColorFormatter{LoggerName: "DATABASE", NameWidth: 10}
	entry := &logrus.Entry{
		Time:    time.Date(2025, 1, 2, 15, 4, 5, 0, time.Local),
		Level:   logrus.InfoLevel,
		Message: "connected",
		Data:    logrus.Fields{"type": "mongodb", "host": "db"},
	}

	b, err := f.Format(entry)
	require.NoError(t, err)
	line := string(b)
	assert.True(t, strings.HasPrefix(line, "2025-01-02 15:04:05.000    INFO "))
	assert.Contains(t, line, "  DATABASE : connected host=db type=mongodb\n")
}

func TestJSONFormatter(t *testing.T) {
	f := &JSONLogFormatter{LoggerName: "BOOTSTRAP"}
	entry := &logrus.Entry{
		Time:    time.Now(),
		Level:   logrus.ErrorLevel,
		Message: "failed",
		Data:    logrus.Fields{"step": "create-user"},
	}

	b, err := f.Format(entry)
	require.NoError(t, err)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &rec))
	assert.Equal(t, "error", rec["level"])
	assert.Equal(t, "BOOTSTRAP", rec["model"])
	assert.Equal(t, "create-user", rec["fields"].(map[string]interface{})["step"])
}

func TestSetLoggerLevel(t *testing.T) {
	l := NewLogger("UTILTEST")
	assert.True(t, SetLoggerLevel("UTILTEST", "error"))
	assert.Equal(t, logrus.ErrorLevel, l.GetLevel())
	assert.False(t, SetLoggerLevel("MISSING", "error"))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("DBSEED_TEST_FLAG", "true")
	t.Setenv("DBSEED_TEST_STR", "x")
	assert.True(t, EnvDefaultBool("DBSEED_TEST_FLAG", false))
	assert.False(t, EnvDefaultBool("DBSEED_TEST_UNSET", false))
	assert.Equal(t, "x", EnvDefaultString("DBSEED_TEST_STR", "y"))
	assert.Equal(t, "y", EnvDefaultString("DBSEED_TEST_UNSET", "y"))
}
