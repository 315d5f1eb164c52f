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

// PoolFake satisfies the pool interface the router depends on.
type PoolFake struct {
	BorrowConn  db.Connection
	BorrowErr   error
	BorrowHook  func(servers []string) (db.Connection, error)
	Borrowed    [][]string
	Returned    []db.Connection
	BorrowAuths []*db.ReAuthToken
}

func (p *PoolFake) Borrow(_ context.Context, servers []string, _ bool, auth *db.ReAuthToken) (db.Connection, error) {
	p.Borrowed = append(p.Borrowed, servers)
	p.BorrowAuths = append(p.BorrowAuths, auth)
	if p.BorrowHook != nil {
		return p.BorrowHook(servers)
	}
	if p.BorrowErr != nil {
		return nil, p.BorrowErr
	}
	return p.BorrowConn, nil
}

func (p *PoolFake) Return(_ context.Context, c db.Connection) {
	p.Returned = append(p.Returned, c)
}
