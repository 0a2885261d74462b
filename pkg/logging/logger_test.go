/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLoggerDefault(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	log, sync, err := NewLogger()
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer sync()
	if log == nil {
		t.Fatal("NewLogger returned nil logger")
	}
	if log.Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Error("production config should not enable debug level")
	}
}

func TestNewLoggerDebug(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	log, sync, err := NewLogger()
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer sync()
	if !log.Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug config should enable debug level")
	}
}
