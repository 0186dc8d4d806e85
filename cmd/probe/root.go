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

// Package probe implements the "probe" command, which prints the sequence of
// hash index entries visited for a hash.
package probe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/vmarray"
	"github.com/cockroachdb/vmarray/cmd/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ProbeCmd prints a probe sequence.
var ProbeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Print the probe sequence for a hash",
	Long: `Print the hash index entries visited, in order, when probing for a hash
or an integer key, which uses the identity hash. String hashes are seeded
per process, so probe a string key by passing its hash with --hash.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	key := "hash"
	ProbeCmd.Flags().Uint64(key, 0, util.WrapString("The hash to probe for"))
	key = "key"
	ProbeCmd.Flags().String(key, "", util.WrapString("An integer key to probe for instead of --hash"))
	key = "mask"
	ProbeCmd.Flags().Uint32(key, 15, util.WrapString("The table mask, one less than a power of two"))
	key = "count"
	ProbeCmd.Flags().Int(key, 0, util.WrapString("How many entries to print (default: the whole table)"))
}

// Sequence returns the first count entries probed for hash in a table of
// size mask+1. A count of 0 means the whole table.
func Sequence(hash uint64, mask uint32, count int) ([]uint32, error) {
	if mask == 0 || mask&(mask+1) != 0 {
		return nil, errors.Newf("mask %d is not one less than a power of two", mask)
	}
	if count <= 0 || uint64(count) > uint64(mask)+1 {
		count = int(mask) + 1
	}
	return vmarray.ProbeSequence(hash, mask, count), nil
}

// HashKey returns the hash used to place the integer key. Keys that are not
// canonical integers are rejected since their hash changes between runs.
func HashKey(key string) (uint64, error) {
	k := vmarray.KeyFromString(key)
	if !k.IsInt() {
		k.Release()
		return 0, errors.Newf("key %q is not an integer; pass the hash of a string key with --hash", key)
	}
	return uint64(k.Int()), nil
}

func run(cmd *cobra.Command, _ []string) error {
	hash := viper.GetUint64("hash")
	if cmd.Flags().Changed("key") {
		var err error
		if hash, err = HashKey(viper.GetString("key")); err != nil {
			return err
		}
	}
	seq, err := Sequence(hash, viper.GetUint32("mask"), viper.GetInt("count"))
	if err != nil {
		return err
	}
	parts := make([]string, len(seq))
	for i, v := range seq {
		parts[i] = strconv.FormatUint(uint64(v), 10)
	}
	fmt.Printf("hash=%#x mask=%d\n%s\n", hash, viper.GetUint32("mask"), strings.Join(parts, " "))
	return nil
}
