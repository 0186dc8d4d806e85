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

// Package bench implements the "bench" command, which drives workloads
// against vmarray.Array and reports per-round latencies.
package bench

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/vmarray"
	"github.com/cockroachdb/vmarray/cmd/util"
	"github.com/lni/dragonboat/v4/logger"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

var log = logger.GetLogger("cli")

// BenchCmd runs a workload.
var BenchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run a workload against an array",
	Long: `Run a workload against an array for a number of rounds and report the
latency distribution of the rounds. The configuration can be set via command
line flags or environment variables of the form VMARRAY_<flag>
(e.g. VMARRAY_KEYS=10000).`,
	Args:    cobra.NoArgs,
	PreRunE: processConfig,
	RunE:    run,
}

// Config configures a benchmark run.
type Config struct {
	Workload string
	Keys     int
	Rounds   int
	Arena    bool
	Metrics  bool
}

var config Config

func init() {
	key := "workload"
	BenchCmd.Flags().String(key, "mixed", util.WrapString("Workload to run (one of: "+fmt.Sprint(WorkloadNames())+")"))
	key = "keys"
	BenchCmd.Flags().Int(key, 10000, util.WrapString("Number of keys each round inserts"))
	key = "rounds"
	BenchCmd.Flags().Int(key, 100, util.WrapString("Number of rounds to run"))
	key = "arena"
	BenchCmd.Flags().Bool(key, false, util.WrapString("Allocate blocks from an arena that recycles them between rounds"))
	key = "metrics"
	BenchCmd.Flags().Bool(key, false, util.WrapString("Print the array event counters in Prometheus text format when done"))
}

func processConfig(_ *cobra.Command, _ []string) error {
	config = Config{
		Workload: viper.GetString("workload"),
		Keys:     viper.GetInt("keys"),
		Rounds:   viper.GetInt("rounds"),
		Arena:    viper.GetBool("arena"),
		Metrics:  viper.GetBool("metrics"),
	}
	if _, ok := workloads[config.Workload]; !ok {
		return errors.Newf("unknown workload %q (expected one of: %v)", config.Workload, WorkloadNames())
	}
	if config.Keys <= 0 || config.Rounds <= 0 {
		return errors.New("keys and rounds must be positive")
	}
	return nil
}

// workload runs one round of n keys against a fresh array whose blocks come
// from alloc, or from the default allocator if alloc is nil. It returns a
// checksum so that the work cannot be elided.
type workload func(n int, alloc vmarray.Allocator[int64]) int64

var workloads = map[string]workload{
	"packed":  packedWorkload,
	"mixed":   mixedWorkload,
	"strings": stringsWorkload,
	"churn":   churnWorkload,
}

// WorkloadNames returns the names of the available workloads, sorted.
func WorkloadNames() []string {
	names := make([]string, 0, len(workloads))
	for name := range workloads {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func newArray(alloc vmarray.Allocator[int64]) *vmarray.Array[int64] {
	if alloc == nil {
		return vmarray.New[int64](0)
	}
	return vmarray.New[int64](0, vmarray.WithAllocator[int64](alloc))
}

// packedWorkload appends n values and sums them back.
func packedWorkload(n int, alloc vmarray.Allocator[int64]) int64 {
	a := newArray(alloc)
	defer a.Release()
	for i := 0; i < n; i++ {
		a.Append(int64(i))
	}
	var sum int64
	for v := range a.Values {
		sum += v
	}
	return sum
}

// mixedWorkload inserts n sparse integer keys and looks each one up.
func mixedWorkload(n int, alloc vmarray.Allocator[int64]) int64 {
	a := newArray(alloc)
	defer a.Release()
	for i := 0; i < n; i++ {
		a.Set(vmarray.IntKey(int64(i)*7+1), int64(i))
	}
	var sum int64
	for i := 0; i < n; i++ {
		v, _ := a.Get(vmarray.IntKey(int64(i)*7 + 1))
		sum += v
	}
	return sum
}

// stringsWorkload inserts n string keys, half of which normalize to
// integers, and iterates over the result.
func stringsWorkload(n int, alloc vmarray.Allocator[int64]) int64 {
	a := newArray(alloc)
	defer a.Release()
	for i := 0; i < n; i++ {
		s := strconv.Itoa(i)
		if i%2 == 1 {
			s = "k" + s
		}
		k := vmarray.KeyFromString(s)
		a.Set(k, int64(i))
		k.Release()
	}
	var sum int64
	for k, v := range a.All {
		if k.IsInt() {
			sum += v
		}
	}
	return sum
}

// churnWorkload fills the array then repeatedly deletes and reinserts keys
// while a strong iterator walks it, forcing tombstones and compactions.
func churnWorkload(n int, alloc vmarray.Allocator[int64]) int64 {
	a := newArray(alloc)
	reg := vmarray.NewRegistry[int64]()
	for i := 0; i < n; i++ {
		a.Set(vmarray.IntKey(int64(i)), int64(i))
	}
	it := reg.Register(a, 0)
	var sum int64
	for i := 0; i < 4*n; i++ {
		k := vmarray.IntKey(int64(i % n))
		a.Delete(k)
		a.Set(k, int64(i))
		if it.Valid() {
			sum += it.Value()
			it.Next()
		}
	}
	a.Release()
	if !it.Detached() {
		panic(errors.AssertionFailedf("strong iterator survived its array"))
	}
	return sum
}

func run(_ *cobra.Command, _ []string) error {
	w := workloads[config.Workload]
	var arena *vmarray.Arena[int64]
	var alloc vmarray.Allocator[int64]
	if config.Arena {
		arena = vmarray.NewArena[int64](0)
		alloc = arena
	}

	registry := gometrics.NewRegistry()
	timer := gometrics.GetOrRegisterTimer(config.Workload, registry)
	log.Infof("running workload %s: keys=%d rounds=%d arena=%t", config.Workload, config.Keys, config.Rounds, config.Arena)

	var checksum int64
	for i := 0; i < config.Rounds; i++ {
		start := time.Now()
		checksum += w(config.Keys, alloc)
		timer.UpdateSince(start)
	}

	report(os.Stdout, config.Workload, timer)
	fmt.Printf("checksum: %d\n", checksum)
	if arena != nil {
		s := arena.Stats()
		fmt.Printf("arena: allocs=%d reuses=%d frees=%d\n", s.Allocs, s.Reuses, s.Frees)
	}
	if config.Metrics {
		fmt.Println()
		metrics.WritePrometheus(os.Stdout, false)
	}
	return nil
}

func report(w io.Writer, name string, t gometrics.Timer) {
	ps := t.Percentiles([]float64{0.5, 0.95, 0.99})
	ms := func(ns float64) float64 { return ns / float64(time.Millisecond) }
	fmt.Fprintf(w, "%s: rounds=%d mean=%.3fms p50=%.3fms p95=%.3fms p99=%.3fms max=%.3fms\n",
		name, t.Count(), ms(t.Mean()), ms(ps[0]), ms(ps[1]), ms(ps[2]), ms(float64(t.Max())))
}
