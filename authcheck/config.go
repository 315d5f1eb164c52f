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

package authcheck

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-authcheck-go/authcheck/auth"
	"github.com/neo4j/neo4j-authcheck-go/authcheck/db"
	"github.com/neo4j/neo4j-authcheck-go/authcheck/log"
)

// Connector establishes an authenticated connection to the server at the
// given address. The returned connection has completed its handshake and
// its first logon with the given token.
type Connector func(ctx context.Context, address string, token auth.Token) (db.Connection, error)

// ServerAddressResolver maps a server address to one or more addresses to
// try instead, typically to route the initial discovery through a load
// balancer.
type ServerAddressResolver func(address string) []string

// A Config contains options that can be used to customize or tune the
// driver.
type Config struct {
	// Connect is used for establishing new connections. Required.
	Connect Connector
	// Resolver that would be used to resolve the initial router address.
	// Optional.
	AddressResolver ServerAddressResolver
	// Maximum number of connections per server, in the connection pool.
	//
	// default: 100
	MaxConnectionPoolSize int
	// Maximum amount of time a retrieval of a connection from the pool
	// will wait when the pool is full.
	//
	// default: 1 * time.Minute
	ConnectionAcquisitionTimeout time.Duration
	// Maximum lifetime of a pooled connection. Connections older than this
	// are destroyed instead of reused. Zero means no limit.
	//
	// default: 1 * time.Hour
	MaxConnectionLifetime time.Duration
	// BackwardsCompatibleAuth allows per-operation authentication against
	// servers whose protocol cannot re-authenticate an open connection. A
	// new, fully re-authenticated connection is established instead, which
	// costs an extra connection per verification.
	//
	// default: false
	BackwardsCompatibleAuth bool
	// Logging target the driver will send its log outputs.
	//
	// default: No Op Logger (log.Void)
	Log log.Logger
}

func defaultConfig() *Config {
	return &Config{
		MaxConnectionPoolSize:        100,
		ConnectionAcquisitionTimeout: 1 * time.Minute,
		MaxConnectionLifetime:        1 * time.Hour,
		BackwardsCompatibleAuth:      false,
		Log:                          log.Void{},
	}
}

func validateAndNormaliseConfig(config *Config) error {
	if config.Connect == nil {
		return &UsageError{Message: "Connector is not configured"}
	}

	// Max Pool Size
	if config.MaxConnectionPoolSize == 0 {
		return &UsageError{Message: "Maximum connection pool cannot be 0"}
	}

	if config.Log == nil {
		config.Log = log.Void{}
	}

	return nil
}
