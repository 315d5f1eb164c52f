/*
 * Copyright (c) "Neo4j"
 * Neo4j Sweden AB [https://neo4j.com]
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package pool

import (
	"context"
	"sync"

	"github.com/neo4j/neo4j-authcheck-go/authcheck/db"
)

// Represents a server address with a number of connections that either are
// in use (borrowed) or are idle, ready for use. Each server guards its own
// state so that traffic to unrelated addresses never serializes.
type server struct {
	mut  sync.Mutex
	idle []db.Connection
	size int
}

// popIdle returns an idle connection if any, moving it to the borrowed
// state. Does not change the registered size.
func (s *server) popIdle() db.Connection {
	s.mut.Lock()
	defer s.mut.Unlock()
	l := len(s.idle)
	if l == 0 {
		return nil
	}
	c := s.idle[l-1]
	s.idle = s.idle[:l-1]
	return c
}

// pushIdle returns a borrowed connection to the idle set.
func (s *server) pushIdle(c db.Connection) {
	s.mut.Lock()
	defer s.mut.Unlock()
	s.idle = append(s.idle, c)
}

// reserve claims a slot for a connection about to be established. Returns
// false if the server is at capacity.
func (s *server) reserve(max int) bool {
	s.mut.Lock()
	defer s.mut.Unlock()
	if s.size >= max {
		return false
	}
	s.size++
	return true
}

// unreg gives up a slot, either after a failed connection attempt or when a
// connection is destroyed.
func (s *server) unreg() {
	s.mut.Lock()
	defer s.mut.Unlock()
	s.size--
}

func (s *server) total() int {
	s.mut.Lock()
	defer s.mut.Unlock()
	return s.size
}

// pruneDead removes dead connections from the idle set and gives up their
// slots. Closing happens on another goroutine to avoid potentially long
// blocking operations while pruning.
func (s *server) pruneDead() {
	s.mut.Lock()
	defer s.mut.Unlock()
	alive := s.idle[:0]
	for _, c := range s.idle {
		if c.IsAlive() {
			alive = append(alive, c)
			continue
		}
		s.size--
		go func(c db.Connection) {
			c.Close(context.Background())
		}(c)
	}
	s.idle = alive
}

// closeAll closes every idle connection. Borrowed connections are closed by
// their borrowers when returned to a closed pool.
func (s *server) closeAll(ctx context.Context) {
	s.mut.Lock()
	defer s.mut.Unlock()
	for _, c := range s.idle {
		c.Close(ctx)
		s.size--
	}
	s.idle = nil
}
