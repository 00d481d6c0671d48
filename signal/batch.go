// Copyright 2025 The Rivaas Authors
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

package signal

// BeginBatch defers effect flushing until the matching EndBatch. Nested
// batches are supported: flush only runs once the outermost batch ends
// (§4.3 "Batch").
func (r *Runtime) BeginBatch() {
	r.batchDepth++
}

// EndBatch closes one level of batching. When the depth returns to zero, any
// effects enqueued during the batch are flushed in enqueue order.
func (r *Runtime) EndBatch() {
	if r.batchDepth == 0 {
		return
	}
	r.batchDepth--
	if r.batchDepth == 0 {
		r.flush()
	}
}
