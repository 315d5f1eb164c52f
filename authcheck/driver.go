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

// Package authcheck provides a driver front end for verifying authentication
// credentials and connectivity against single-instance and clustered
// deployments.
package authcheck

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/neo4j/neo4j-authcheck-go/authcheck/auth"
	"github.com/neo4j/neo4j-authcheck-go/authcheck/db"
	"github.com/neo4j/neo4j-authcheck-go/authcheck/internal/errorutil"
	"github.com/neo4j/neo4j-authcheck-go/authcheck/internal/pool"
	"github.com/neo4j/neo4j-authcheck-go/authcheck/internal/racing"
	"github.com/neo4j/neo4j-authcheck-go/authcheck/internal/router"
	"github.com/neo4j/neo4j-authcheck-go/authcheck/log"
)

const defaultPort = "7687"

// Key of the routing context that carries the address the driver was
// created with. Reserved, users may not set it themselves.
const routingContextAddressKey = "address"

// Driver represents a pool of connections to a server or cluster.
// It's safe for concurrent use.
type Driver interface {
	// Target returns the url this driver is bootstrapped
	Target() url.URL
	// VerifyAuthentication verifies that the provided authentication token,
	// or the driver's own token when auth is nil, is accepted by a reader
	// of the system database.
	//
	// It returns (true, nil) when the credentials are accepted and
	// (false, nil) when the server definitively rejects them. Any other
	// failure is returned as an error.
	VerifyAuthentication(ctx context.Context, auth *AuthToken) (bool, error)
	// VerifyConnectivity checks that the driver can connect to a remote
	// server or cluster by establishing a network connection with the
	// remote. Returns nil if successful or error describing the problem.
	VerifyConnectivity(ctx context.Context) error
	// GetServerInfo attempts to obtain server information from the target
	// server or cluster.
	GetServerInfo(ctx context.Context) (ServerInfo, error)
	// IsEncrypted determines whether the driver communicates with the
	// server over an encrypted channel.
	IsEncrypted() bool
	// Close the driver and all underlying connections
	Close(ctx context.Context) error
}

// ServerInfo contains basic information of the server.
type ServerInfo interface {
	// Address returns the address of the server.
	Address() string
	// ProtocolVersion returns the protocol version negotiated with the
	// server.
	ProtocolVersion() db.ProtocolVersion
}

type simpleServerInfo struct {
	address         string
	protocolVersion db.ProtocolVersion
}

func (info simpleServerInfo) Address() string {
	return info.address
}

func (info simpleServerInfo) ProtocolVersion() db.ProtocolVersion {
	return info.protocolVersion
}

// sessionRouter is the abstraction of the routing layer the verification
// paths run against, either a table-refreshing cluster router or a static
// direct router.
type sessionRouter interface {
	GetOrUpdateReaders(ctx context.Context, bookmarks []string, database string, auth *db.ReAuthToken) ([]string, error)
	GetOrUpdateWriters(ctx context.Context, bookmarks []string, database string, auth *db.ReAuthToken) ([]string, error)
	Invalidate(database string)
	CleanUp()
}

// NewDriver is the entry point to the driver to create an instance of a
// Driver. It is the first function to be called in order to establish a
// connection to a neo4j database. It requires a Bolt URI and an
// authentication token as parameters and can also take optional
// configuration function(s) as variadic parameters.
//
// No connectivity happens when NewDriver is called, use
// Driver.VerifyConnectivity for that.
//
// URI schemes:
//   - bolt, bolt+s, bolt+ssc: direct connection to a single instance
//   - neo4j, neo4j+s, neo4j+ssc: routed connection to a cluster
func NewDriver(target string, authToken AuthToken, configurers ...func(*Config)) (Driver, error) {
	parsed, err := url.Parse(target)
	if err != nil {
		return nil, &UsageError{Message: fmt.Sprintf("Failed to parse url: %s", err)}
	}

	d := driver{target: parsed, auth: authToken, closedMut: racing.NewMutex()}

	routing := true
	encrypted := false
	switch parsed.Scheme {
	case "bolt":
		routing = false
	case "bolt+s":
		encrypted = true
		routing = false
	case "bolt+ssc":
		encrypted = true
		routing = false
	case "neo4j":
	case "neo4j+s":
		encrypted = true
	case "neo4j+ssc":
		encrypted = true
	default:
		return nil, &UsageError{
			Message: fmt.Sprintf("URI scheme error: '%s', expected 'bolt', 'bolt+s', 'bolt+ssc', 'neo4j', 'neo4j+s' or 'neo4j+ssc'", parsed.Scheme),
		}
	}
	d.encrypted = encrypted

	if parsed.Host == "" {
		return nil, &UsageError{Message: "URI host error: no host provided"}
	}

	address := parsed.Host
	if parsed.Port() == "" {
		address += ":" + defaultPort
		parsed.Host = address
	}

	routingContext, err := routingContextFromUrl(routing, parsed)
	if err != nil {
		return nil, err
	}

	d.config = defaultConfig()
	for _, configurer := range configurers {
		configurer(d.config)
	}
	if err := validateAndNormaliseConfig(d.config); err != nil {
		return nil, err
	}

	d.log = d.config.Log
	d.logId = log.NewId()
	d.now = time.Now

	d.pool = pool.New(
		d.config.MaxConnectionPoolSize,
		d.config.MaxConnectionLifetime,
		pool.Connect(d.config.Connect),
		d.config.BackwardsCompatibleAuth,
		d.log,
		d.logId)

	if !routing {
		d.router = &directRouter{address: address}
	} else {
		var routersResolver func() []string
		addressResolverHook := d.config.AddressResolver
		if addressResolverHook != nil {
			routersResolver = func() []string {
				return addressResolverHook(address)
			}
		}
		d.router = router.New(address, routersResolver, routingContext, d.pool, d.log, d.logId, &d.now)
	}

	d.log.Infof(log.Driver, d.logId, "Created { target: %s }", address)
	return &d, nil
}

func routingContextFromUrl(useRouting bool, u *url.URL) (map[string]string, error) {
	queryValues := u.Query()
	if !useRouting {
		if len(queryValues) > 0 {
			return nil, &UsageError{Message: "Routing context is not supported for direct connections"}
		}
		return nil, nil
	}
	routingContext := make(map[string]string, len(queryValues)+1)
	for k, vs := range queryValues {
		if len(vs) > 1 {
			return nil, &UsageError{Message: fmt.Sprintf("Duplicated query parameters in user-provided routing context '%s'", k)}
		}
		v := vs[0]
		if len(v) == 0 {
			return nil, &UsageError{Message: fmt.Sprintf("Empty query parameters in user-provided routing context '%s'", k)}
		}
		if k == routingContextAddressKey {
			return nil, &UsageError{Message: fmt.Sprintf("Illegal query parameter '%s' in url", routingContextAddressKey)}
		}
		routingContext[k] = v
	}
	routingContext[routingContextAddressKey] = u.Host
	return routingContext, nil
}

type driver struct {
	target    *url.URL
	config    *Config
	auth      AuthToken
	encrypted bool
	pool      *pool.Pool
	router    sessionRouter
	now       func() time.Time
	log       log.Logger
	logId     string
	closed    bool
	closedMut racing.Mutex
}

func (d *driver) Target() url.URL {
	return *d.target
}

func (d *driver) IsEncrypted() bool {
	return d.encrypted
}

// reAuthTokenFor wraps the token of a single operation. A nil override
// means the driver's own token applies, anything else is treated as
// session-level auth.
func (d *driver) reAuthTokenFor(overrideAuth *AuthToken, forceReAuth bool) *db.ReAuthToken {
	if overrideAuth == nil {
		return &db.ReAuthToken{
			Manager:     auth.Static(d.auth),
			FromSession: false,
			ForceReAuth: forceReAuth,
		}
	}
	return &db.ReAuthToken{
		Manager:     auth.Static(*overrideAuth),
		FromSession: true,
		ForceReAuth: forceReAuth,
	}
}

func (d *driver) VerifyConnectivity(ctx context.Context) error {
	_, err := d.GetServerInfo(ctx)
	return err
}

func (d *driver) GetServerInfo(ctx context.Context) (ServerInfo, error) {
	defer d.cleanUp(ctx)
	conn, err := d.borrowReader(ctx, d.reAuthTokenFor(nil, false))
	if err != nil {
		return nil, errorutil.WrapError(err)
	}
	defer d.pool.Return(ctx, conn)
	return simpleServerInfo{
		address:         conn.ServerName(),
		protocolVersion: conn.Version(),
	}, nil
}

// cleanUp prunes expired routing tables and dead pooled connections after
// a completed operation.
func (d *driver) cleanUp(ctx context.Context) {
	poolCleanUpChan := make(chan struct{}, 1)
	routerCleanUpChan := make(chan struct{}, 1)
	go func() {
		d.pool.CleanUp(ctx)
		poolCleanUpChan <- struct{}{}
	}()
	go func() {
		d.router.CleanUp()
		routerCleanUpChan <- struct{}{}
	}()
	<-poolCleanUpChan
	<-routerCleanUpChan
}

func (d *driver) checkOpen(ctx context.Context) error {
	if !d.closedMut.TryLock(ctx) {
		return racing.LockTimeoutError("could not acquire lock in time when checking driver state")
	}
	defer d.closedMut.Unlock()
	if d.closed {
		return &UsageError{Message: "Trying to use a closed driver"}
	}
	return nil
}

// borrowReader resolves a reader of the system database through the router
// and borrows a connection to it, authenticated per the given token.
func (d *driver) borrowReader(ctx context.Context, reAuth *db.ReAuthToken) (db.Connection, error) {
	if err := d.checkOpen(ctx); err != nil {
		return nil, err
	}
	readers, err := d.router.GetOrUpdateReaders(ctx, nil, db.SystemDatabase, reAuth)
	if err != nil {
		return nil, err
	}
	if d.config.ConnectionAcquisitionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.ConnectionAcquisitionTimeout)
		defer cancel()
	}
	return d.pool.Borrow(ctx, readers, true, reAuth)
}

func (d *driver) Close(ctx context.Context) error {
	if !d.closedMut.TryLock(ctx) {
		return racing.LockTimeoutError("could not acquire lock in time when closing driver")
	}
	defer d.closedMut.Unlock()
	// Safeguard against closing more than once
	if !d.closed {
		d.closed = true
		d.pool.Close(ctx)
		d.log.Infof(log.Driver, d.logId, "Closed")
	}
	return nil
}
