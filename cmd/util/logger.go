// Copyright 2024 The Cockroach Authors
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

package util

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/viper"
)

// levelNames are the tags printed in front of each log line.
var levelNames = map[logger.LogLevel]string{
	logger.CRITICAL: "CRIT",
	logger.ERROR:    "ERROR",
	logger.WARNING:  "WARN",
	logger.INFO:     "INFO",
	logger.DEBUG:    "DEBUG",
}

// cliLogger is the logger.ILogger the vmarray command installs for every
// package logger, the library's included. Lines go to stderr as
// "LEVEL | package | message".
type cliLogger struct {
	pkg   string
	level logger.LogLevel
	out   *log.Logger
}

func (l *cliLogger) SetLevel(level logger.LogLevel) { l.level = level }

func (l *cliLogger) Debugf(format string, args ...interface{}) {
	l.logf(logger.DEBUG, format, args...)
}

func (l *cliLogger) Infof(format string, args ...interface{}) {
	l.logf(logger.INFO, format, args...)
}

func (l *cliLogger) Warningf(format string, args ...interface{}) {
	l.logf(logger.WARNING, format, args...)
}

func (l *cliLogger) Errorf(format string, args ...interface{}) {
	l.logf(logger.ERROR, format, args...)
}

// Panicf logs regardless of the level and panics.
func (l *cliLogger) Panicf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.out.Printf("%-5s | %-15s | %s", levelNames[logger.CRITICAL], l.pkg, msg)
	panic(msg)
}

func (l *cliLogger) logf(level logger.LogLevel, format string, args ...interface{}) {
	if level > l.level {
		return
	}
	l.out.Printf("%-5s | %-15s | %s", levelNames[level], l.pkg, fmt.Sprintf(format, args...))
}

// CreateLogger is the logger.Factory installed by InitLoggers. New loggers
// start at INFO.
func CreateLogger(pkgName string) logger.ILogger {
	return &cliLogger{
		pkg:   pkgName,
		level: logger.INFO,
		out:   log.New(os.Stderr, "", log.Ldate|log.Ltime),
	}
}

// ParseLogLevel converts a level name to a logger.LogLevel.
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, nil
	case "info":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return 0, errors.Newf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// InitLoggers installs CreateLogger as the logger factory and applies the
// configured log level to the vmarray loggers.
func InitLoggers() error {
	level, err := ParseLogLevel(viper.GetString("log-level"))
	if err != nil {
		return err
	}
	logger.SetLoggerFactory(CreateLogger)
	logger.GetLogger("vmarray").SetLevel(level)
	logger.GetLogger("cli").SetLevel(level)
	return nil
}
