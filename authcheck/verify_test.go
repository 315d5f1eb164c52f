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
	"testing"
	"time"

	"github.com/neo4j/neo4j-authcheck-go/authcheck/auth"
	"github.com/neo4j/neo4j-authcheck-go/authcheck/db"
	"github.com/neo4j/neo4j-authcheck-go/authcheck/internal/testutil"
)

const fakeRouter = "router0:7687"
const fakeReader = "reader0:7687"

// fakeNetwork scripts the connection layer. Every dial hands out a fresh
// ConnFake for the address, optionally failing the connect-time logon.
type fakeNetwork struct {
	version   db.ProtocolVersion
	table     *db.RoutingTable
	logonErrs map[string]error
	dials     []string
	connsBy   map[string][]*testutil.ConnFake
}

func newFakeNetwork(version db.ProtocolVersion) *fakeNetwork {
	return &fakeNetwork{
		version: version,
		table: &db.RoutingTable{
			DatabaseName: db.SystemDatabase,
			TimeToLive:   1000,
			Routers:      []string{fakeRouter},
			Readers:      []string{fakeReader},
			Writers:      []string{fakeReader},
		},
		logonErrs: make(map[string]error),
		connsBy:   make(map[string][]*testutil.ConnFake),
	}
}

func (n *fakeNetwork) connect(ctx context.Context, address string, token auth.Token) (db.Connection, error) {
	n.dials = append(n.dials, address)
	c := &testutil.ConnFake{
		Name:     address,
		Ver:      n.version,
		Alive:    true,
		Birth:    time.Now(),
		Table:    n.table,
		LogonErr: n.logonErrs[address],
	}
	if err := c.Logon(ctx, token); err != nil {
		return nil, err
	}
	n.connsBy[address] = append(n.connsBy[address], c)
	return c, nil
}

// conn returns the i:th connection established to the address.
func (n *fakeNetwork) conn(t *testing.T, address string, i int) *testutil.ConnFake {
	t.Helper()
	conns := n.connsBy[address]
	if len(conns) <= i {
		t.Fatalf("no connection %d to %s, got %d", i, address, len(conns))
	}
	return conns[i]
}

func routedVerifyDriver(t *testing.T, n *fakeNetwork, configurers ...func(*Config)) *driver {
	t.Helper()
	all := append([]func(*Config){func(c *Config) { c.Connect = n.connect }}, configurers...)
	d, err := NewDriver("neo4j://router0", BasicAuth("user", "pass", ""), all...)
	testutil.AssertNoError(t, err)
	return d.(*driver)
}

func directVerifyDriver(t *testing.T, n *fakeNetwork, configurers ...func(*Config)) *driver {
	t.Helper()
	all := append([]func(*Config){func(c *Config) { c.Connect = n.connect }}, configurers...)
	d, err := NewDriver("bolt://reader0", BasicAuth("user", "pass", ""), all...)
	testutil.AssertNoError(t, err)
	return d.(*driver)
}

func TestVerifyAuthentication(t *testing.T) {
	ctx := context.Background()
	v51 := db.ProtocolVersion{Major: 5, Minor: 1}
	v50 := db.ProtocolVersion{Major: 5, Minor: 0}

	t.Run("Accepted credentials on cold driver", func(t *testing.T) {
		n := newFakeNetwork(v51)
		d := routedVerifyDriver(t, n)
		passed, err := d.VerifyAuthentication(ctx, nil)
		testutil.AssertNoError(t, err)
		testutil.AssertTrue(t, passed)
		// One routing fetch, one logon on the reader, no queries.
		testutil.AssertIntEqual(t, n.conn(t, fakeRouter, 0).RouteCalls, 1)
		reader := n.conn(t, fakeReader, 0)
		testutil.AssertIntEqual(t, reader.LogonCalls, 1)
		testutil.AssertIntEqual(t, reader.RunCalls, 0)
	})

	t.Run("Rejected credentials at the reader", func(t *testing.T) {
		rejections := []string{
			"Neo.ClientError.Security.CredentialsExpired",
			"Neo.ClientError.Security.Forbidden",
			"Neo.ClientError.Security.TokenExpired",
			"Neo.ClientError.Security.Unauthorized",
		}
		for _, code := range rejections {
			t.Run(code, func(t *testing.T) {
				n := newFakeNetwork(v51)
				n.logonErrs[fakeReader] = &db.Neo4jError{Code: code, Msg: "nope"}
				d := routedVerifyDriver(t, n)
				passed, err := d.VerifyAuthentication(ctx, nil)
				testutil.AssertNoError(t, err)
				testutil.AssertFalse(t, passed)
			})
		}
	})

	t.Run("Unclassified security errors surface with their code", func(t *testing.T) {
		propagations := []string{
			"Neo.ClientError.Security.MadeUp",
			"Neo.ClientError.Security.AuthenticationRateLimit",
			"Neo.ClientError.Security.AuthorizationExpired",
			"Neo.ClientError.Database.DatabaseNotFound",
		}
		for _, code := range propagations {
			t.Run(code, func(t *testing.T) {
				n := newFakeNetwork(v51)
				n.logonErrs[fakeReader] = &db.Neo4jError{Code: code, Msg: "nope"}
				d := routedVerifyDriver(t, n)
				passed, err := d.VerifyAuthentication(ctx, nil)
				testutil.AssertFalse(t, passed)
				testutil.AssertNeo4jError(t, err, code)
			})
		}
	})

	t.Run("Rejected credentials at the router", func(t *testing.T) {
		n := newFakeNetwork(v51)
		n.logonErrs[fakeRouter] = &db.Neo4jError{Code: "Neo.ClientError.Security.TokenExpired", Msg: "nope"}
		d := routedVerifyDriver(t, n)
		passed, err := d.VerifyAuthentication(ctx, nil)
		testutil.AssertNoError(t, err)
		testutil.AssertFalse(t, passed)
		// Discovery failed, the reader must never have been dialed.
		testutil.AssertLen(t, n.dials, 1)
		testutil.AssertStringEqual(t, n.dials[0], fakeRouter)
	})

	t.Run("Expired authorization at the router surfaces", func(t *testing.T) {
		n := newFakeNetwork(v51)
		n.logonErrs[fakeRouter] = &db.Neo4jError{Code: "Neo.ClientError.Security.AuthorizationExpired", Msg: "nope"}
		d := routedVerifyDriver(t, n)
		passed, err := d.VerifyAuthentication(ctx, nil)
		testutil.AssertFalse(t, passed)
		testutil.AssertNeo4jError(t, err, "Neo.ClientError.Security.AuthorizationExpired")
	})

	t.Run("Repeated verification reuses connection and routing table", func(t *testing.T) {
		n := newFakeNetwork(v51)
		d := routedVerifyDriver(t, n)
		for i := 0; i < 2; i++ {
			passed, err := d.VerifyAuthentication(ctx, nil)
			testutil.AssertNoError(t, err)
			testutil.AssertTrue(t, passed)
		}
		testutil.AssertIntEqual(t, n.conn(t, fakeRouter, 0).RouteCalls, 1)
		testutil.AssertLen(t, n.connsBy[fakeReader], 1)
		// Second round forces a new logon on the pooled connection.
		testutil.AssertIntEqual(t, n.conn(t, fakeReader, 0).LogonCalls, 2)
	})

	t.Run("Repeated verification on a direct driver", func(t *testing.T) {
		n := newFakeNetwork(v51)
		d := directVerifyDriver(t, n)
		// Every pass gives the same verdict and proves the credentials
		// with exactly one logon on the same connection.
		for i := 0; i < 2; i++ {
			passed, err := d.VerifyAuthentication(ctx, nil)
			testutil.AssertNoError(t, err)
			testutil.AssertTrue(t, passed)
			reader := n.conn(t, fakeReader, 0)
			testutil.AssertIntEqual(t, reader.LogonCalls, i+1)
			testutil.AssertIntEqual(t, reader.RunCalls, 0)
		}
		testutil.AssertLen(t, n.connsBy[fakeReader], 1)
		testutil.AssertLen(t, n.dials, 1)
	})

	t.Run("Expired authorization at the reader on warm driver", func(t *testing.T) {
		n := newFakeNetwork(v51)
		d := routedVerifyDriver(t, n)
		passed, err := d.VerifyAuthentication(ctx, nil)
		testutil.AssertNoError(t, err)
		testutil.AssertTrue(t, passed)

		reader := n.conn(t, fakeReader, 0)
		reader.LogonErr = &db.Neo4jError{Code: "Neo.ClientError.Security.AuthorizationExpired", Msg: "nope"}
		passed, err = d.VerifyAuthentication(ctx, nil)
		testutil.AssertFalse(t, passed)
		testutil.AssertNeo4jError(t, err, "Neo.ClientError.Security.AuthorizationExpired")
		// The cached routing table served the failing attempt.
		testutil.AssertIntEqual(t, n.conn(t, fakeRouter, 0).RouteCalls, 1)
	})

	t.Run("Stale routing table is refreshed", func(t *testing.T) {
		n := newFakeNetwork(v51)
		n.table.TimeToLive = 100
		d := routedVerifyDriver(t, n)
		current := time.Now()
		d.now = func() time.Time { return current }

		passed, err := d.VerifyAuthentication(ctx, nil)
		testutil.AssertNoError(t, err)
		testutil.AssertTrue(t, passed)
		testutil.AssertIntEqual(t, n.conn(t, fakeRouter, 0).RouteCalls, 1)

		current = current.Add(101 * time.Second)
		passed, err = d.VerifyAuthentication(ctx, nil)
		testutil.AssertNoError(t, err)
		testutil.AssertTrue(t, passed)
		testutil.AssertIntEqual(t, n.conn(t, fakeRouter, 0).RouteCalls, 2)
	})

	t.Run("Session token is verified independently of the driver token", func(t *testing.T) {
		n := newFakeNetwork(v51)
		d := routedVerifyDriver(t, n)
		sessionToken := BasicAuth("other", "secret", "")
		passed, err := d.VerifyAuthentication(ctx, &sessionToken)
		testutil.AssertNoError(t, err)
		testutil.AssertTrue(t, passed)
		reader := n.conn(t, fakeReader, 0)
		testutil.AssertTrue(t, sessionToken.Equals(reader.Token))
	})

	t.Run("Old protocol rejects verification", func(t *testing.T) {
		n := newFakeNetwork(v50)
		d := directVerifyDriver(t, n)
		passed, err := d.VerifyAuthentication(ctx, nil)
		testutil.AssertFalse(t, passed)
		testutil.AssertFeatureNotSupportedError(t, err)
	})

	t.Run("Old protocol leaves pooled connections untouched", func(t *testing.T) {
		n := newFakeNetwork(v50)
		d := directVerifyDriver(t, n)
		// Warm the pool without triggering re-authentication.
		_, err := d.GetServerInfo(ctx)
		testutil.AssertNoError(t, err)
		conn := n.conn(t, fakeReader, 0)
		logons := conn.LogonCalls

		passed, err := d.VerifyAuthentication(ctx, nil)
		testutil.AssertFalse(t, passed)
		testutil.AssertFeatureNotSupportedError(t, err)
		// No network traffic, the connection stays pooled and usable.
		testutil.AssertIntEqual(t, conn.LogonCalls, logons)
		testutil.AssertFalse(t, conn.Closed)
		testutil.AssertIntEqual(t, conn.RunCalls, 0)

		// And the pool still hands it out afterwards.
		_, err = d.GetServerInfo(ctx)
		testutil.AssertNoError(t, err)
		testutil.AssertLen(t, n.connsBy[fakeReader], 1)
	})

	t.Run("Old protocol with backwards compatible auth", func(t *testing.T) {
		n := newFakeNetwork(v50)
		d := directVerifyDriver(t, n, func(c *Config) {
			c.BackwardsCompatibleAuth = true
		})
		// Warm the pool so verification has to displace a connection.
		_, err := d.GetServerInfo(ctx)
		testutil.AssertNoError(t, err)

		passed, err := d.VerifyAuthentication(ctx, nil)
		testutil.AssertNoError(t, err)
		testutil.AssertTrue(t, passed)
		// The pooled connection was replaced by a freshly authenticated
		// one which proves the credentials with a round trip.
		testutil.AssertLen(t, n.connsBy[fakeReader], 2)
		replacement := n.conn(t, fakeReader, 1)
		testutil.AssertIntEqual(t, replacement.LogonCalls, 1)
		testutil.AssertIntEqual(t, replacement.RunCalls, 1)
		testutil.AssertLen(t, replacement.SelectedDbs, 1)
		testutil.AssertStringEqual(t, replacement.SelectedDbs[0], db.SystemDatabase)
	})

	t.Run("Closed driver", func(t *testing.T) {
		n := newFakeNetwork(v51)
		d := routedVerifyDriver(t, n)
		testutil.AssertNoError(t, d.Close(ctx))
		_, err := d.VerifyAuthentication(ctx, nil)
		testutil.AssertError(t, err)
		testutil.AssertTrue(t, IsUsageError(err))
	})
}

func TestGetServerInfo(t *testing.T) {
	ctx := context.Background()
	n := newFakeNetwork(db.ProtocolVersion{Major: 5, Minor: 1})
	d := routedVerifyDriver(t, n)

	info, err := d.GetServerInfo(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertStringEqual(t, info.Address(), fakeReader)
	if info.ProtocolVersion().Major != 5 || info.ProtocolVersion().Minor != 1 {
		t.Errorf("unexpected protocol version %v", info.ProtocolVersion())
	}
}

func TestVerifyConnectivity(t *testing.T) {
	ctx := context.Background()

	t.Run("Reachable cluster", func(t *testing.T) {
		n := newFakeNetwork(db.ProtocolVersion{Major: 5, Minor: 1})
		d := routedVerifyDriver(t, n)
		testutil.AssertNoError(t, d.VerifyConnectivity(ctx))
	})

	t.Run("Unreachable cluster", func(t *testing.T) {
		n := newFakeNetwork(db.ProtocolVersion{Major: 5, Minor: 1})
		n.logonErrs[fakeRouter] = &db.Neo4jError{Code: "Neo.ClientError.Security.Unauthorized", Msg: "nope"}
		d := routedVerifyDriver(t, n)
		err := d.VerifyConnectivity(ctx)
		testutil.AssertNeo4jError(t, err, "Neo.ClientError.Security.Unauthorized")
	})
}
