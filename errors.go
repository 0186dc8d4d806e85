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

import "github.com/cockroachdb/errors"

// ErrCapacityOverflow is the cause of the panic raised when an Array is asked
// to hold more than MaxSize elements.
var ErrCapacityOverflow = errors.New("vmarray: capacity overflow")

// ErrOutOfMemory is the cause of the panic raised when the Allocator fails to
// provide a block.
var ErrOutOfMemory = errors.New("vmarray: out of memory")
