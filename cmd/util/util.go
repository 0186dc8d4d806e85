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

// Package util provides configuration, flag and logging helpers shared by the
// vmarray commands.
package util

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the column flag help text is wrapped at.
	Wrap int = 50

	// EnvPrefix is prepended to flag names to form environment variables,
	// e.g. VMARRAY_LOG_LEVEL for --log-level.
	EnvPrefix = "vmarray"
)

// WrapString reflows text into lines of at most Wrap columns, breaking only
// between words. A word longer than Wrap gets a line of its own.
func WrapString(text string) string {
	var b strings.Builder
	col := 0
	for _, w := range strings.Fields(text) {
		switch {
		case col == 0:
		case col+1+len(w) > Wrap:
			b.WriteByte('\n')
			col = 0
		default:
			b.WriteByte(' ')
			col++
		}
		b.WriteString(w)
		col += len(w)
	}
	return b.String()
}

// InitConfig loads .env files and makes viper read VMARRAY_* environment
// variables.
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// BindFlags binds the local and inherited flags of cmd to viper so that
// environment variables can provide their values.
func BindFlags(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "binding flags")
	}
	if err := viper.BindPFlags(cmd.InheritedFlags()); err != nil {
		return errors.Wrap(err, "binding inherited flags")
	}
	return nil
}
