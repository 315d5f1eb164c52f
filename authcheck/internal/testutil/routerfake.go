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

package testutil

import (
	"context"

	"github.com/neo4j/neo4j-authcheck-go/authcheck/db"
)

// RouterFake scripts the routing layer the driver depends on.
type RouterFake struct {
	Readers      []string
	ReadersErr   error
	ReadersCalls int
	Writers      []string
	WritersErr   error
	Invalidated  []string
	CleanedUp    bool
}

func (r *RouterFake) GetOrUpdateReaders(context.Context, []string, string, *db.ReAuthToken) ([]string, error) {
	r.ReadersCalls++
	if r.ReadersErr != nil {
		return nil, r.ReadersErr
	}
	return r.Readers, nil
}

func (r *RouterFake) GetOrUpdateWriters(context.Context, []string, string, *db.ReAuthToken) ([]string, error) {
	if r.WritersErr != nil {
		return nil, r.WritersErr
	}
	return r.Writers, nil
}

func (r *RouterFake) Invalidate(database string) {
	r.Invalidated = append(r.Invalidated, database)
}

func (r *RouterFake) CleanUp() {
	r.CleanedUp = true
}
