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
	"time"

	"github.com/neo4j/neo4j-authcheck-go/authcheck/auth"
	"github.com/neo4j/neo4j-authcheck-go/authcheck/db"
)

// ConnFake is a scripted stand-in for db.Connection. Counters record the
// exchanges a test cares about: logons, runs and routing table fetches.
type ConnFake struct {
	Name        string
	Ver         db.ProtocolVersion
	Alive       bool
	Birth       time.Time
	Token       auth.Token
	LogonErr    error
	LogonCalls  int
	LogonTokens []auth.Token
	RunErr      error
	RunCalls    int
	RunQueries  []string
	ConsumeErr  error
	Table       *db.RoutingTable
	RouteErr    error
	RouteCalls  int
	RouteHook   func() (*db.RoutingTable, error)
	SelectedDb  string
	SelectedDbs []string
	Closed      bool
	ResetCalls  int
}

func (c *ConnFake) Logon(_ context.Context, token auth.Token) error {
	c.LogonCalls++
	c.LogonTokens = append(c.LogonTokens, token)
	if c.LogonErr != nil {
		return c.LogonErr
	}
	c.Token = token
	return nil
}

func (c *ConnFake) AuthToken() auth.Token {
	return c.Token
}

func (c *ConnFake) Run(_ context.Context, cmd db.Command) (db.StreamHandle, error) {
	c.RunCalls++
	c.RunQueries = append(c.RunQueries, cmd.Query)
	if c.RunErr != nil {
		return nil, c.RunErr
	}
	return c, nil
}

func (c *ConnFake) Consume(context.Context, db.StreamHandle) error {
	return c.ConsumeErr
}

func (c *ConnFake) GetRoutingTable(context.Context, map[string]string, []string, string) (*db.RoutingTable, error) {
	c.RouteCalls++
	if c.RouteHook != nil {
		return c.RouteHook()
	}
	if c.RouteErr != nil {
		return nil, c.RouteErr
	}
	return c.Table, nil
}

func (c *ConnFake) Version() db.ProtocolVersion {
	return c.Ver
}

func (c *ConnFake) ServerName() string {
	return c.Name
}

func (c *ConnFake) IsAlive() bool {
	return c.Alive
}

func (c *ConnFake) Birthdate() time.Time {
	return c.Birth
}

func (c *ConnFake) Reset(context.Context) {
	c.ResetCalls++
	c.SelectedDb = ""
}

func (c *ConnFake) Close(context.Context) {
	c.Alive = false
	c.Closed = true
}

func (c *ConnFake) SelectDatabase(database string) {
	c.SelectedDb = database
	c.SelectedDbs = append(c.SelectedDbs, database)
}
