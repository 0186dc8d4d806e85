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

package cmd

import (
	"fmt"
	"os"

	"github.com/cockroachdb/vmarray/cmd/bench"
	"github.com/cockroachdb/vmarray/cmd/plan"
	"github.com/cockroachdb/vmarray/cmd/probe"
	"github.com/cockroachdb/vmarray/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
)

var (
	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "vmarray",
		Short: "inspect and exercise the VM array container",
		Long: fmt.Sprintf(`vmarray (v%s)

Tools for the ordered, dual-mode (packed/mixed) associative array used as the
native array value of a dynamic-language virtual machine.`, Version),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := util.BindFlags(cmd); err != nil {
				return err
			}
			return util.InitLoggers()
		},
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of vmarray",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("vmarray v%s\n", Version)
		},
	}
)

func init() {
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(plan.PlanCmd)
	RootCmd.AddCommand(probe.ProbeCmd)
	RootCmd.AddCommand(bench.BenchCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "log-level"
	RootCmd.PersistentFlags().String(key, "info", util.WrapString("level at which logs are written (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
