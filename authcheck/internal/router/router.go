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

// Package router caches routing tables and refreshes them when they turn
// stale.
package router

import (
	"sync"
	"time"

	"context"

	"github.com/neo4j/neo4j-authcheck-go/authcheck/db"
	"github.com/neo4j/neo4j-authcheck-go/authcheck/internal/racing"
	"github.com/neo4j/neo4j-authcheck-go/authcheck/log"
)

// Pool is the connection pool as seen by the router.
type Pool interface {
	Borrow(ctx context.Context, servers []string, wait bool, auth *db.ReAuthToken) (db.Connection, error)
	Return(ctx context.Context, c db.Connection)
}

// dbRouter is the routing state of a single database. Every database has
// its own lock so that refreshes of unrelated databases never serialize.
type dbRouter struct {
	mut     racing.Mutex
	table   *db.RoutingTable
	dueUnix int64
}

// Router is thread safe.
type Router struct {
	routerContext map[string]string
	pool          Pool
	dbRouters     map[string]*dbRouter
	dbRoutersMut  sync.Mutex
	now           *func() time.Time
	rootRouter    string
	getRouters    func() []string
	log           log.Logger
	logId         string
}

func New(
	rootRouter string,
	getRouters func() []string,
	routerContext map[string]string,
	pool Pool,
	logger log.Logger,
	logId string,
	now *func() time.Time,
) *Router {
	r := &Router{
		rootRouter:    rootRouter,
		getRouters:    getRouters,
		routerContext: routerContext,
		pool:          pool,
		dbRouters:     make(map[string]*dbRouter),
		now:           now,
		log:           logger,
		logId:         logId,
	}
	r.log.Infof(log.Router, r.logId, "Created {context: %v}", routerContext)
	return r
}

func (r *Router) getDbRouter(database string) *dbRouter {
	r.dbRoutersMut.Lock()
	defer r.dbRoutersMut.Unlock()
	dbr := r.dbRouters[database]
	if dbr == nil {
		dbr = &dbRouter{mut: racing.NewMutex()}
		r.dbRouters[database] = dbr
	}
	return dbr
}

// getOrUpdateTable returns the cached routing table for the database while
// it is fresh, otherwise fetches a new one from a router and replaces the
// cache entry wholesale.
func (r *Router) getOrUpdateTable(ctx context.Context, bookmarks []string, database string, auth *db.ReAuthToken) (*db.RoutingTable, error) {
	dbr := r.getDbRouter(database)
	if !dbr.mut.TryLock(ctx) {
		return nil, racing.LockTimeoutError("could not acquire router lock in time when updating routing table")
	}
	defer dbr.mut.Unlock()

	now := (*r.now)()
	if dbr.table != nil && now.Unix() < dbr.dueUnix {
		return dbr.table, nil
	}

	var routers []string
	if dbr.table != nil {
		routers = dbr.table.Routers
	}
	if len(routers) == 0 {
		routers = []string{r.rootRouter}
	}

	r.log.Infof(log.Router, r.logId, "Reading routing table for '%s' from any of %v", database, routers)
	table, err := readTable(ctx, r.pool, routers, r.routerContext, bookmarks, database, auth, r.log, r.logId)
	if err != nil {
		// Use the hook to retrieve a possibly different set of routers and
		// retry, unless the failure was one that must surface right away.
		if r.getRouters != nil && !isFatalRetrieveError(err) {
			routers = r.getRouters()
			table, err = readTable(ctx, r.pool, routers, r.routerContext, bookmarks, database, auth, r.log, r.logId)
		}
		if err != nil {
			r.log.Error(log.Router, r.logId, err)
			return nil, err
		}
	}
	dbr.table = table
	dbr.dueUnix = now.Add(time.Duration(table.TimeToLive) * time.Second).Unix()
	r.log.Debugf(log.Router, r.logId, "New routing table for '%s', TTL %d", database, table.TimeToLive)
	return table, nil
}

// GetOrUpdateReaders returns the servers that can serve reads on the
// database, refreshing the routing table first if it is stale.
func (r *Router) GetOrUpdateReaders(ctx context.Context, bookmarks []string, database string, auth *db.ReAuthToken) ([]string, error) {
	table, err := r.getOrUpdateTable(ctx, bookmarks, database, auth)
	if err != nil {
		return nil, err
	}
	return table.Readers, nil
}

// GetOrUpdateWriters returns the servers that can serve writes on the
// database, refreshing the routing table first if it is stale.
func (r *Router) GetOrUpdateWriters(ctx context.Context, bookmarks []string, database string, auth *db.ReAuthToken) ([]string, error) {
	table, err := r.getOrUpdateTable(ctx, bookmarks, database, auth)
	if err != nil {
		return nil, err
	}
	return table.Writers, nil
}

// Invalidate marks the database's routing table as stale, forcing a
// refresh on next access.
func (r *Router) Invalidate(database string) {
	r.log.Infof(log.Router, r.logId, "Invalidating routing table for '%s'", database)
	r.dbRoutersMut.Lock()
	dbr := r.dbRouters[database]
	r.dbRoutersMut.Unlock()
	if dbr == nil {
		return
	}
	if !dbr.mut.TryLock(context.Background()) {
		return
	}
	defer dbr.mut.Unlock()
	// The next access refreshes the routing table using the last known
	// set of routers instead of the root one.
	dbr.dueUnix = 0
}

// CleanUp removes all expired routing tables.
func (r *Router) CleanUp() {
	r.log.Debugf(log.Router, r.logId, "Cleaning up routing tables")
	nowUnix := (*r.now)().Unix()
	r.dbRoutersMut.Lock()
	defer r.dbRoutersMut.Unlock()
	for database, dbr := range r.dbRouters {
		if nowUnix >= dbr.dueUnix {
			delete(r.dbRouters, database)
		}
	}
}
