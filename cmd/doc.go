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

// Package cmd implements the command-line interface of vmarray, a set of
// tools for inspecting the table geometry of vmarray.Array and for driving
// workloads against it.
//
// The package is organized into several subpackages:
//
//   - plan: Prints the capacity, mask and allocation size chosen for a
//     requested number of elements
//   - probe: Prints the probe sequence for a hash
//   - bench: Runs workloads against an Array and reports latencies
//   - util: Shared utilities for command-line processing, configuration and
//     logging (internal use)
//
// See vmarray -help for a list of all commands.
package cmd
