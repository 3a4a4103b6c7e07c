/*
 * Copyright 2025 The RuleGo Authors.
 *
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

package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLevel_String 测试日志级别的字符串表示
func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{OFF, "OFF"},
		{Level(999), "UNKNOWN"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, test.level.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", DEBUG, false},
		{" Info ", INFO, false},
		{"", INFO, false},
		{"warning", WARN, false},
		{"ERROR", ERROR, false},
		{"off", OFF, false},
		{"verbose", INFO, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestDefaultLogger_Format 测试日志输出格式
func TestDefaultLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(DEBUG, &buf)

	l.Debug("lowered %s", "(price * 5)")
	l.Error("failed: %v", "boom")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[DEBUG] lowered (price * 5)")
	assert.Contains(t, lines[1], "[ERROR] failed: boom")
	assert.True(t, strings.HasPrefix(lines[0], "["))
}

// TestDefaultLogger_LevelFiltering 测试日志级别过滤
func TestDefaultLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		loggerLevel  Level
		messageLevel Level
		shouldLog    bool
	}{
		{DEBUG, DEBUG, true},
		{DEBUG, ERROR, true},
		{INFO, DEBUG, false},
		{INFO, INFO, true},
		{WARN, INFO, false},
		{WARN, WARN, true},
		{ERROR, WARN, false},
		{ERROR, ERROR, true},
		{OFF, ERROR, false},
	}

	for _, test := range tests {
		var buf bytes.Buffer
		l := NewLogger(test.loggerLevel, &buf)

		switch test.messageLevel {
		case DEBUG:
			l.Debug("test message")
		case INFO:
			l.Info("test message")
		case WARN:
			l.Warn("test message")
		case ERROR:
			l.Error("test message")
		}

		assert.Equal(t, test.shouldLog, buf.Len() > 0,
			"logger %s, message %s", test.loggerLevel, test.messageLevel)
	}
}

// TestDefaultLogger_SetLevel 测试设置日志级别
func TestDefaultLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(DEBUG, &buf)
	l.SetLevel(ERROR)

	l.Info("info message")
	assert.Zero(t, buf.Len())

	l.Error("error message")
	assert.Contains(t, buf.String(), "error message")
}

func TestNamed(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(INFO, &buf)
	l := Named(base, "registry")

	l.Info("resolved %s", "Math.abs")
	assert.Contains(t, buf.String(), "[INFO] registry: resolved Math.abs")

	buf.Reset()
	l.SetLevel(OFF)
	l.Error("hidden")
	assert.Zero(t, buf.Len())
}

func TestDiscardLogger(t *testing.T) {
	l := NewDiscardLogger()
	assert.NotPanics(t, func() {
		l.Debug("x")
		l.Info("x")
		l.Warn("x")
		l.Error("x")
		l.SetLevel(DEBUG)
	})
}

// TestGlobalLogger 测试全局日志器
func TestGlobalLogger(t *testing.T) {
	original := GetDefault()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(NewLogger(WARN, &buf))

	Info("info message")
	Warn("warn message")
	Error("error message")
	Debug("debug message")

	output := buf.String()
	assert.NotContains(t, output, "info message")
	assert.NotContains(t, output, "debug message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}
