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

// Package db defines the contracts between the driver core and the
// protocol/connection layer. The wire codec, TLS and connection
// establishment live behind these interfaces.
package db

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-authcheck-go/authcheck/auth"
)

// Marker for using the default database instance.
const DefaultDatabase = ""

// SystemDatabase is the database used for authentication verification when
// the protocol lacks a logon-only exchange and a no-op query is needed.
const SystemDatabase = "system"

// ProtocolVersion is the protocol version negotiated with the server during
// handshake. It is determined once per connection and immutable thereafter,
// all capability checks derive from it.
type ProtocolVersion struct {
	Major int
	Minor int
}

// SupportsSessionAuth reports whether the connection can be
// re-authenticated in place with a different token (logoff/logon exchange).
func (v ProtocolVersion) SupportsSessionAuth() bool {
	return v.Major > 5 || (v.Major == 5 && v.Minor >= 1)
}

// SupportsMinimalVerification reports whether a logon exchange alone, with
// no session state created, is enough to prove credentials against the
// server.
func (v ProtocolVersion) SupportsMinimalVerification() bool {
	return v.SupportsSessionAuth()
}

// ReAuthToken carries the auth token in force for an operation down to the
// pool and connection layer.
type ReAuthToken struct {
	Manager auth.TokenManager
	// FromSession is set when the token was supplied per-call instead of
	// at driver construction.
	FromSession bool
	// ForceReAuth requires a fresh logon even if the connection is already
	// authenticated with the same token.
	ForceReAuth bool
}

// RoutingTable is a snapshot of the cluster members serving one database.
// Replaced wholesale on every successful refresh, never mutated.
type RoutingTable struct {
	DatabaseName string
	TimeToLive   int
	Routers      []string
	Readers      []string
	Writers      []string
}

// Command is a query to be executed on a connection.
type Command struct {
	Query  string
	Params map[string]any
}

type StreamHandle any

// Connection is the driver's view of a single logical channel to one server
// instance. Implementations own the socket and the wire codec. A connection
// is never shared across concurrent logical operations.
type Connection interface {
	// Logon authenticates, or re-authenticates, the connection with the
	// given token. On success the token becomes the connection's installed
	// token as reported by AuthToken.
	Logon(ctx context.Context, token auth.Token) error
	// AuthToken returns the token of the most recent successful logon.
	AuthToken() auth.Token
	// Run executes a query on the connection.
	Run(ctx context.Context, cmd Command) (StreamHandle, error)
	// Consume discards all remaining records of the stream and returns the
	// first error encountered, if any.
	Consume(ctx context.Context, stream StreamHandle) error
	// GetRoutingTable fetches a fresh routing table for the database from
	// this server, which then acts as a router.
	GetRoutingTable(ctx context.Context, routingContext map[string]string, bookmarks []string, database string) (*RoutingTable, error)
	// Version returns the protocol version negotiated at handshake.
	Version() ProtocolVersion
	// ServerName returns the name of the remote server.
	ServerName() string
	// IsAlive returns true if the connection is fully functional.
	// Implementations should be passive, no pinging or similar since it
	// might be called rather frequently.
	IsAlive() bool
	// Birthdate returns the point in time when the connection was
	// established.
	Birthdate() time.Time
	// Reset returns the connection to the same state as directly after
	// logon.
	Reset(ctx context.Context)
	// Close closes the database connection as well as the underlying
	// socket. The instance should not be used afterwards.
	Close(ctx context.Context)
}

// DatabaseSelector is implemented by connections that support selecting
// which database instance on the server subsequent commands apply to.
type DatabaseSelector interface {
	// SelectDatabase should be called directly after Reset or logon. Not
	// allowed to be called multiple times with different databases without
	// a reset in between.
	SelectDatabase(database string)
}
