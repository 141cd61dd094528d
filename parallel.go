// Copyright 2025 The PixelPlay Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pixelplay

import (
	"sync"
)

// Mapper applies a function to n independent units of work. It is the
// scheduling abstraction behind the data parallel steps of the matcher
// (per-box dominant color computation and per-box tile search).
//
// The function f is called exactly once for every index in [0, n). f must be
// pure with respect to shared state: it may only write to the slot i of some
// preallocated result slice. Under this contract every Mapper implementation
// produces identical results, only throughput differs.
type Mapper interface {
	Map(n int, f func(i int))
}

// SequentialMapper is a Mapper that runs all jobs in the calling goroutine,
// in index order. It is used for worker counts ≤ 1 and for deterministic
// low-resource execution.
type SequentialMapper struct{}

// Map implements the Map method of Mapper.
func (mapper SequentialMapper) Map(n int, f func(i int)) {
	for i := 0; i < n; i++ {
		f(i)
	}
}

// PoolMapper is a Mapper that distributes jobs over a fixed number of
// goroutines reading from a shared job channel.
type PoolMapper struct {
	NumRoutines int
}

// NewMapper returns the mapper for the given number of worker routines:
// a SequentialMapper for numRoutines ≤ 1 and a PoolMapper otherwise.
func NewMapper(numRoutines int) Mapper {
	if numRoutines <= 1 {
		return SequentialMapper{}
	}
	return PoolMapper{NumRoutines: numRoutines}
}

// Map implements the Map method of Mapper.
func (mapper PoolMapper) Map(n int, f func(i int)) {
	numRoutines := mapper.NumRoutines
	if numRoutines <= 0 {
		numRoutines = 1
	}
	jobs := make(chan int, BufferSize)
	var wg sync.WaitGroup
	wg.Add(n)
	for w := 0; w < numRoutines; w++ {
		go func() {
			for next := range jobs {
				f(next)
				wg.Done()
			}
		}()
	}
	go func() {
		for i := 0; i < n; i++ {
			jobs <- i
		}
		close(jobs)
	}()
	wg.Wait()
}
