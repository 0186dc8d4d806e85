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

// Package plan implements the "plan" command, which prints the table
// geometry chosen for requested element counts.
package plan

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/vmarray"
	"github.com/cockroachdb/vmarray/cmd/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// PlanCmd prints capacity, mask and allocation sizes.
var PlanCmd = &cobra.Command{
	Use:   "plan N [N...]",
	Short: "Print the table geometry for element counts",
	Long: `Print, for each requested element count, the hash table mask, the slot
capacity and the size in bytes of the packed and mixed blocks an array would
allocate. Sizes assume 8-byte values.`,
	Args: cobra.MinimumNArgs(1),
	RunE: run,
}

func init() {
	key := "doublings"
	PlanCmd.Flags().Int(key, 0, util.WrapString("Also print this many successive doublings of each table"))
}

// Row describes the geometry of one table.
type Row struct {
	Requested   uint64
	Mask        uint32
	Capacity    uint32
	PackedBytes uint64
	MixedBytes  uint64
}

// Plan returns the geometry for n elements followed by doublings successive
// growths of that table.
func Plan(n uint64, doublings int) ([]Row, error) {
	if n > vmarray.MaxSize {
		return nil, errors.Wrapf(vmarray.ErrCapacityOverflow, "%d elements requested, max %d", n, vmarray.MaxSize)
	}
	capacity, mask := vmarray.PlanCapacity(n)
	rows := []Row{makeRow(n, capacity, mask)}
	for i := 0; i < doublings && mask < 1<<31-1; i++ {
		mask = mask*2 + 1
		rows = append(rows, makeRow(n, vmarray.MaxElements(mask), mask))
	}
	return rows, nil
}

func makeRow(n uint64, capacity, mask uint32) Row {
	return Row{
		Requested:   n,
		Mask:        mask,
		Capacity:    capacity,
		PackedBytes: vmarray.AllocationSize[int64](capacity, mask, vmarray.Packed),
		MixedBytes:  vmarray.AllocationSize[int64](capacity, mask, vmarray.Mixed),
	}
}

func run(_ *cobra.Command, args []string) error {
	doublings := viper.GetInt("doublings")
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "requested\tmask\tcapacity\tpacked bytes\tmixed bytes\t")
	for _, arg := range args {
		n, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid element count %q", arg)
		}
		rows, err := Plan(n, doublings)
		if err != nil {
			return err
		}
		for _, r := range rows {
			fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t\n", r.Requested, r.Mask, r.Capacity, r.PackedBytes, r.MixedBytes)
		}
	}
	return w.Flush()
}
