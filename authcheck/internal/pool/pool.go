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

// Package pool handles the database connection pool.
package pool

// Thread safe

import (
	"container/list"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/neo4j/neo4j-authcheck-go/authcheck/auth"
	"github.com/neo4j/neo4j-authcheck-go/authcheck/db"
	"github.com/neo4j/neo4j-authcheck-go/authcheck/internal/errorutil"
	"github.com/neo4j/neo4j-authcheck-go/authcheck/log"
)

// Connect establishes a connection to an address, performs the protocol
// handshake and logs on with the given token. Dialing, TLS and the wire
// codec are owned by the implementation.
type Connect func(ctx context.Context, address string, token auth.Token) (db.Connection, error)

// errFullReAuth signals that the token in force can only be applied by
// replacing the channel with a freshly authenticated one.
var errFullReAuth = errors.New("full re-authentication required")

type qitem struct {
	servers []string
	wakeup  chan bool
	conn    db.Connection
}

type Pool struct {
	maxSize                 int
	maxLife                 time.Duration
	connect                 Connect
	backwardsCompatibleAuth bool
	servers                 map[string]*server
	serversMut              sync.Mutex
	queueMut                sync.Mutex
	queue                   list.List
	closed                  bool
	log                     log.Logger
	logId                   string
}

func New(maxSize int, maxLife time.Duration, connect Connect, backwardsCompatibleAuth bool, logger log.Logger, logId string) *Pool {
	p := &Pool{
		maxSize:                 maxSize,
		maxLife:                 maxLife,
		connect:                 connect,
		backwardsCompatibleAuth: backwardsCompatibleAuth,
		servers:                 make(map[string]*server),
		log:                     logger,
		logId:                   logId,
	}
	p.log.Infof(log.Pool, p.logId, "Created")
	return p
}

func (p *Pool) Close(ctx context.Context) {
	p.serversMut.Lock()
	p.closed = true
	p.serversMut.Unlock()
	// Cancel everything in the queue by emptying it and let the waiters
	// time out.
	p.queueMut.Lock()
	p.queue.Init()
	p.queueMut.Unlock()
	p.serversMut.Lock()
	for n, srv := range p.servers {
		srv.closeAll(ctx)
		delete(p.servers, n)
	}
	p.serversMut.Unlock()
	p.log.Infof(log.Pool, p.logId, "Closed")
}

// CleanUp prunes all dead connections from the idle sets.
func (p *Pool) CleanUp(ctx context.Context) {
	p.serversMut.Lock()
	defer p.serversMut.Unlock()
	for n, srv := range p.servers {
		srv.pruneDead()
		if srv.total() == 0 {
			delete(p.servers, n)
		}
	}
}

func (p *Pool) getServer(name string, create bool) *server {
	p.serversMut.Lock()
	defer p.serversMut.Unlock()
	srv := p.servers[name]
	if srv == nil && create {
		srv = &server{}
		p.servers[name] = srv
	}
	return srv
}

func (p *Pool) pruneServer(name string) {
	p.serversMut.Lock()
	defer p.serversMut.Unlock()
	srv := p.servers[name]
	if srv != nil && srv.total() == 0 {
		delete(p.servers, name)
	}
}

func (p *Pool) isClosed() bool {
	p.serversMut.Lock()
	defer p.serversMut.Unlock()
	return p.closed
}

// Borrow hands out a connection to any of the given servers, authenticated
// with the token carried by reAuth. A new connection is established when no
// idle one exists and the per-server capacity allows it. When wait is true
// and all servers are at capacity, Borrow blocks until a connection is
// returned or the context expires.
func (p *Pool) Borrow(ctx context.Context, servers []string, wait bool, reAuth *db.ReAuthToken) (db.Connection, error) {
	if p.isClosed() {
		return nil, &errorutil.PoolClosed{}
	}
	p.log.Debugf(log.Pool, p.logId, "Borrow %v", servers)

	// Cheapest first: an idle connection on any of the servers.
	conn, err := p.tryExistingIdle(ctx, servers, reAuth)
	if conn != nil || err != nil {
		return conn, err
	}

	// Establish a new connection on any server with capacity left.
	for _, s := range servers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		srv := p.getServer(s, true)
		if !srv.reserve(p.maxSize) {
			continue
		}
		conn, err := p.establish(ctx, s, reAuth)
		if err != nil {
			srv.unreg()
			p.pruneServer(s)
			return nil, err
		}
		return conn, nil
	}

	if !wait {
		return nil, &errorutil.PoolFull{Servers: servers}
	}
	return p.waitForConn(ctx, servers, reAuth)
}

// tryExistingIdle walks the servers looking for a live idle connection and
// prepares it for use with the token in force. Dead connections found on
// the way are destroyed.
func (p *Pool) tryExistingIdle(ctx context.Context, servers []string, reAuth *db.ReAuthToken) (db.Connection, error) {
	for _, s := range servers {
		srv := p.getServer(s, false)
		if srv == nil {
			continue
		}
		for {
			c := srv.popIdle()
			if c == nil {
				break
			}
			if !c.IsAlive() || p.tooOld(c) {
				p.log.Debugf(log.Pool, p.logId, "%s: conn dead or overaged", s)
				srv.unreg()
				go c.Close(context.Background())
				continue
			}
			return p.prepareForUse(ctx, srv, s, c, reAuth)
		}
		p.pruneServer(s)
	}
	return nil, nil
}

// tooOld reports whether the connection has outlived the maximum
// connection lifetime. Zero means no limit.
func (p *Pool) tooOld(c db.Connection) bool {
	return p.maxLife > 0 && time.Since(c.Birthdate()) > p.maxLife
}

// prepareForUse applies the token in force to a reused connection and
// decides the connection's fate on failure: a server-side rejection leaves
// the channel usable and returns it to the idle set, anything else destroys
// it. A locally synthesized unsupported-feature failure involves no network
// I/O at all, the connection goes back untouched.
func (p *Pool) prepareForUse(ctx context.Context, srv *server, name string, c db.Connection, reAuth *db.ReAuthToken) (db.Connection, error) {
	err := p.reAuthorize(ctx, c, reAuth)
	switch err.(type) {
	case nil:
		return c, nil
	case *db.Neo4jError:
		if c.IsAlive() {
			c.Reset(ctx)
			srv.pushIdle(c)
		} else {
			srv.unreg()
			go c.Close(context.Background())
		}
		return nil, err
	case *db.FeatureNotSupportedError:
		srv.pushIdle(c)
		return nil, err
	}
	if err == errFullReAuth {
		// Backwards compatible mode: replace the channel with one that
		// authenticates with the token in force during connect.
		go c.Close(context.Background())
		conn, derr := p.establish(ctx, name, reAuth)
		if derr != nil {
			srv.unreg()
			p.pruneServer(name)
			return nil, derr
		}
		return conn, nil
	}
	srv.unreg()
	go c.Close(context.Background())
	return nil, err
}

// reAuthorize makes sure the connection is authenticated with the token
// carried by reAuth before it is handed out.
func (p *Pool) reAuthorize(ctx context.Context, c db.Connection, reAuth *db.ReAuthToken) error {
	if reAuth == nil {
		return nil
	}
	token, err := reAuth.Manager.GetAuthToken(ctx)
	if err != nil {
		return err
	}
	if token.Equals(c.AuthToken()) && !reAuth.ForceReAuth {
		return nil
	}
	if !c.Version().SupportsSessionAuth() {
		if !reAuth.FromSession && !reAuth.ForceReAuth {
			return nil
		}
		if p.backwardsCompatibleAuth {
			return errFullReAuth
		}
		return &db.FeatureNotSupportedError{
			Server:  c.ServerName(),
			Feature: "session auth",
			Reason:  "requires at least Bolt 5.1",
		}
	}
	return c.Logon(ctx, token)
}

// checkAuthGate rejects operations that demand re-authentication from a
// server whose protocol cannot deliver it. Fresh connections are already
// logged on with the token in force, so in backwards compatible mode there
// is nothing left to check.
func (p *Pool) checkAuthGate(c db.Connection, reAuth *db.ReAuthToken) error {
	if reAuth == nil || (!reAuth.FromSession && !reAuth.ForceReAuth) {
		return nil
	}
	if c.Version().SupportsSessionAuth() || p.backwardsCompatibleAuth {
		return nil
	}
	return &db.FeatureNotSupportedError{
		Server:  c.ServerName(),
		Feature: "session auth",
		Reason:  "requires at least Bolt 5.1",
	}
}

// establish dials a new connection authenticated with the token in force.
// The caller owns the server slot accounting.
func (p *Pool) establish(ctx context.Context, name string, reAuth *db.ReAuthToken) (db.Connection, error) {
	var token auth.Token
	if reAuth != nil {
		t, err := reAuth.Manager.GetAuthToken(ctx)
		if err != nil {
			return nil, err
		}
		token = t
	}
	p.log.Debugf(log.Pool, p.logId, "%s: connecting", name)
	c, err := p.connect(ctx, name, token)
	if err != nil {
		return nil, err
	}
	if err := p.checkAuthGate(c, reAuth); err != nil {
		go c.Close(context.Background())
		return nil, err
	}
	return c, nil
}

// waitForConn parks the borrower in the queue until another borrower
// returns a matching connection or the context expires.
func (p *Pool) waitForConn(ctx context.Context, servers []string, reAuth *db.ReAuthToken) (db.Connection, error) {
	p.queueMut.Lock()
	// Between the failed borrow attempt and taking the queue lock another
	// borrower might have returned a connection, check again to avoid
	// getting starved.
	conn, err := p.tryExistingIdle(ctx, servers, reAuth)
	if conn != nil || err != nil {
		p.queueMut.Unlock()
		return conn, err
	}
	// The wakeup channel is buffered so that a returner that already
	// claimed this item never blocks on the send, even when the waiter
	// gave up on its context in between.
	q := &qitem{
		servers: servers,
		wakeup:  make(chan bool, 1),
	}
	e := p.queue.PushBack(q)
	p.queueMut.Unlock()

	p.log.Debugf(log.Pool, p.logId, "in queue for %v", servers)

	select {
	case <-q.wakeup:
		return p.receiveHandover(ctx, q.conn, reAuth)
	case <-ctx.Done():
		p.queueMut.Lock()
		p.queue.Remove(e)
		p.queueMut.Unlock()
		if q.conn != nil {
			return p.receiveHandover(ctx, q.conn, reAuth)
		}
		return nil, &errorutil.PoolTimeout{Err: ctx.Err(), Servers: servers}
	}
}

func (p *Pool) receiveHandover(ctx context.Context, c db.Connection, reAuth *db.ReAuthToken) (db.Connection, error) {
	name := c.ServerName()
	srv := p.getServer(name, true)
	return p.prepareForUse(ctx, srv, name, c, reAuth)
}

func (p *Pool) unregister(name string, c db.Connection) {
	srv := p.getServer(name, false)
	if srv != nil {
		srv.unreg()
		p.pruneServer(name)
	}
	// Close on another goroutine to avoid a potentially long blocking
	// operation.
	go c.Close(context.Background())
}

// Return gives a borrowed connection back to the pool. Dead connections
// are destroyed, live ones are reset and either handed to a queued waiter
// or placed in the idle set.
func (p *Pool) Return(ctx context.Context, c db.Connection) {
	if c == nil {
		return
	}
	name := c.ServerName()
	p.log.Debugf(log.Pool, p.logId, "Return conn to %s", name)

	if p.isClosed() {
		c.Close(ctx)
		return
	}
	if !c.IsAlive() {
		p.unregister(name, c)
		return
	}
	c.Reset(ctx)
	if !c.IsAlive() {
		p.unregister(name, c)
		return
	}

	// Check if anyone in the queue is waiting for a connection to this
	// server.
	p.queueMut.Lock()
	for e := p.queue.Front(); e != nil; e = e.Next() {
		qi := e.Value.(*qitem)
		for _, rserver := range qi.servers {
			if rserver == name {
				qi.conn = c
				p.queue.Remove(e)
				p.queueMut.Unlock()
				qi.wakeup <- true
				return
			}
		}
	}
	p.queueMut.Unlock()

	srv := p.getServer(name, false)
	if srv == nil {
		// Strange, the server vanished while the connection was borrowed.
		go c.Close(context.Background())
		return
	}
	srv.pushIdle(c)
}
