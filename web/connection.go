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

package web

import (
	"errors"
	"sync"
	"time"

	"github.com/raku1chi/pixelplay"

	"github.com/google/uuid"
)

// ConnectionID identifies one editor connection (browser session).
type ConnectionID uuid.UUID

// GenConnectionID generates a new random connection id.
func GenConnectionID() (ConnectionID, error) {
	id, idErr := uuid.NewRandom()
	return ConnectionID(id), idErr
}

func (id ConnectionID) String() string {
	return uuid.UUID(id).String()
}

// State is the per-connection editor state: the tile library the connection
// loaded, the mosaic configuration and the output encoding settings.
type State struct {
	created        time.Time
	lastConnection time.Time
	library        *pixelplay.TileLibrary
	config         pixelplay.MosaicConfig
	jpgQuality     int
}

// NewState returns the state of a fresh connection with the default mosaic
// configuration.
func NewState(numRoutines int) *State {
	now := time.Now().UTC()
	config := pixelplay.DefaultMosaicConfig()
	if numRoutines > 0 {
		config.NumRoutines = numRoutines
	}
	return &State{
		created:        now,
		lastConnection: now,
		library:        nil,
		config:         config,
		jpgQuality:     100,
	}
}

// Touch updates the last connection time.
func (s *State) Touch() {
	s.lastConnection = time.Now().UTC()
}

// Expired checks whether the connection was idle for at least maxAge.
func (s *State) Expired(now time.Time, maxAge time.Duration) bool {
	age := now.Sub(s.lastConnection)
	return age >= maxAge
}

var (
	ErrConnNotFound = errors.New("connection not found")
)

// ConnectionStorage administrates the states of all known connections.
// Implementations must be safe for concurrent use.
type ConnectionStorage interface {
	Get(conn ConnectionID) (*State, error)
	Set(conn ConnectionID, state *State) error
	Delete(conn ConnectionID) error
	Filter(maxAge time.Duration) error
}

// MemStorage implements ConnectionStorage with an in-memory map.
type MemStorage struct {
	mutex   *sync.RWMutex
	connMap map[ConnectionID]*State
}

// NewMemStorage returns a new empty in-memory connection storage.
func NewMemStorage() *MemStorage {
	m := new(sync.RWMutex)
	connMap := make(map[ConnectionID]*State, 1000)
	return &MemStorage{
		mutex:   m,
		connMap: connMap,
	}
}

func (s *MemStorage) Get(conn ConnectionID) (*State, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	state, has := s.connMap[conn]
	if has {
		return state, nil
	}
	return nil, ErrConnNotFound
}

func (s *MemStorage) Set(conn ConnectionID, state *State) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.connMap[conn] = state
	return nil
}

func (s *MemStorage) Delete(conn ConnectionID) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.connMap, conn)
	return nil
}

// Filter removes all connections that were idle for at least maxAge.
func (s *MemStorage) Filter(maxAge time.Duration) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	now := time.Now().UTC()
	for id, state := range s.connMap {
		if state.Expired(now, maxAge) {
			delete(s.connMap, id)
		}
	}
	return nil
}
