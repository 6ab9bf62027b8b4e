// Copyright 2025 The Classroom Authors, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// A Logger provides leveled, Printf-style logging for one module.
// The functions must be safe for concurrent use and do not require a
// trailing newline in the format. A disabled level is a no-op.
type Logger struct {
	moduleName string
	Verbosef   func(format string, args ...any)
	Infof      func(format string, args ...any)
	Warningf   func(format string, args ...any)
	Errorf     func(format string, args ...any)
}

// Log levels for use with NewLogger.
const (
	LogLevelSilent  = iota // No logging
	LogLevelVerbose        // Debug logging
	LogLevelInfo           // Info logging
	LogLevelWarning        // Warning logging
	LogLevelError          // Error logging
)

var (
	mu       sync.RWMutex
	level    = LogLevelInfo
	out      io.Writer = os.Stdout
	registry = map[string]*Logger{}
)

// ParseLevel maps a level name to its constant. Unknown names are silent.
func ParseLevel(name string) int {
	switch strings.ToLower(name) {
	case "error":
		return LogLevelError
	case "verbose", "debug":
		return LogLevelVerbose
	case "info":
		return LogLevelInfo
	case "warning", "warn":
		return LogLevelWarning
	default:
		return LogLevelSilent
	}
}

// DiscardLogf Function for use in Logger for discarding logged lines.
func DiscardLogf(format string, args ...any) {}

func (logger *Logger) logf(prefix string, w io.Writer) func(string, ...any) {
	return log.New(w, fmt.Sprintf("[%s] %s: ", logger.moduleName, prefix), log.Ldate|log.Ltime|log.Lshortfile).Printf
}

// NewLogger constructs a Logger that writes to the package output.
// It logs at the specified log level and above.
func NewLogger(level int, module string) *Logger {
	logger := &Logger{module, DiscardLogf, DiscardLogf, DiscardLogf, DiscardLogf}
	mu.RLock()
	w := out
	mu.RUnlock()
	logger.set(level, w)
	return logger
}

// GetLogger returns the shared logger for module, creating it at the
// current global level on first use.
func GetLogger(module string) *Logger {
	mu.Lock()
	defer mu.Unlock()
	if l, ok := registry[module]; ok {
		return l
	}
	l := &Logger{module, DiscardLogf, DiscardLogf, DiscardLogf, DiscardLogf}
	l.set(level, out)
	registry[module] = l
	return l
}

// SetLogLevel changes the global level and re-levels every logger handed
// out by GetLogger.
func SetLogLevel(name string) {
	SetOutput(ParseLevel(name), nil)
}

// SetOutput changes the global level and, when w is non-nil, the writer.
func SetOutput(lvl int, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	level = lvl
	if w != nil {
		out = w
	}
	for _, l := range registry {
		l.set(level, out)
	}
}

func (logger *Logger) set(level int, w io.Writer) *Logger {
	switch level {
	case LogLevelSilent:
		logger.Verbosef = DiscardLogf
		logger.Infof = DiscardLogf
		logger.Warningf = DiscardLogf
		logger.Errorf = DiscardLogf
	case LogLevelVerbose:
		logger.Verbosef = logger.logf("DEBUG", w)
		logger.Infof = logger.logf("INFO", w)
		logger.Warningf = logger.logf("WARNING", w)
		logger.Errorf = logger.logf("ERROR", w)
	case LogLevelInfo:
		logger.Verbosef = DiscardLogf
		logger.Infof = logger.logf("INFO", w)
		logger.Warningf = logger.logf("WARNING", w)
		logger.Errorf = logger.logf("ERROR", w)
	case LogLevelWarning:
		logger.Infof = DiscardLogf
		logger.Verbosef = DiscardLogf
		logger.Warningf = logger.logf("WARNING", w)
		logger.Errorf = logger.logf("ERROR", w)
	case LogLevelError:
		logger.Infof = DiscardLogf
		logger.Verbosef = DiscardLogf
		logger.Warningf = DiscardLogf
		logger.Errorf = logger.logf("ERROR", w)
	default:
		//empty
	}

	return logger
}
