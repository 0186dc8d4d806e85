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

package vmarray

import (
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger("vmarray")

// Structural events are counted in the default metrics set and exposed by
// metrics.WritePrometheus.
var (
	growCounter    = metrics.GetOrCreateCounter("vmarray_grow_total")
	compactCounter = metrics.GetOrCreateCounter("vmarray_compact_total")
	promoteCounter = metrics.GetOrCreateCounter("vmarray_promote_total")
	detachCounter  = metrics.GetOrCreateCounter("vmarray_strong_iterators_detached_total")

	arenaAllocCounter = metrics.GetOrCreateCounter("vmarray_arena_alloc_total")
	arenaReuseCounter = metrics.GetOrCreateCounter("vmarray_arena_reuse_total")
)
