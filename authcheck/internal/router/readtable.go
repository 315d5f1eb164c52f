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

package router

import (
	"context"

	"github.com/neo4j/neo4j-authcheck-go/authcheck/db"
	"github.com/neo4j/neo4j-authcheck-go/authcheck/internal/errorutil"
	"github.com/neo4j/neo4j-authcheck-go/authcheck/log"
)

// readTable tries to read a routing table from any of the given routers
// using a new or existing connection from the pool.
//
// Routers are tried one at a time since some of them might no longer
// support routing and the pool can't be forced to avoid them when handing
// out connections. Failures classified as fatal during discovery stop the
// loop and surface verbatim, anything else is wrapped and the next router
// is tried.
func readTable(
	ctx context.Context,
	pool Pool,
	routers []string,
	routerContext map[string]string,
	bookmarks []string,
	database string,
	auth *db.ReAuthToken,
	logger log.Logger,
	logId string,
) (*db.RoutingTable, error) {
	// Preserve the last error to be returned, set a default for the case
	// of no routers.
	var err error = &errorutil.ReadRoutingTableError{}

	for _, router := range routers {
		var conn db.Connection
		if conn, err = pool.Borrow(ctx, []string{router}, true, auth); err != nil {
			if ctx.Err() != nil {
				return nil, wrapError(router, ctx.Err())
			}
			if errorutil.IsFatalDuringDiscovery(err) {
				return nil, err
			}
			err = wrapError(router, err)
			continue
		}

		var table *db.RoutingTable
		table, err = conn.GetRoutingTable(ctx, routerContext, bookmarks, database)
		pool.Return(ctx, conn)
		if err == nil {
			logger.Debugf(log.Router, logId, "Got routing table from %s", router)
			return table, nil
		}
		if errorutil.IsFatalDuringDiscovery(err) {
			return nil, err
		}
		err = wrapError(router, err)
	}
	return nil, err
}

func wrapError(server string, err error) error {
	// Preserve the error sent from the server
	if _, isNeo4jErr := err.(*db.Neo4jError); isNeo4jErr {
		return err
	}
	return &errorutil.ReadRoutingTableError{Server: server, Err: err}
}

func isFatalRetrieveError(err error) bool {
	return errorutil.IsFatalDuringDiscovery(err)
}
