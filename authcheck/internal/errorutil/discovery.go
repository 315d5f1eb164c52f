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

package errorutil

import (
	"context"

	"github.com/neo4j/neo4j-authcheck-go/authcheck/db"
)

// IsFatalDuringDiscovery reports whether a failure while reading a routing
// table should stop discovery right away and surface verbatim to the
// caller, instead of being treated as "this router did not work, try the
// next one".
//
// Security errors are fatal with the exception of AuthorizationExpired,
// which indicates the router's own cached authorization state is stale and
// a retry against another router is warranted.
func IsFatalDuringDiscovery(err error) bool {
	if _, ok := err.(*db.FeatureNotSupportedError); ok {
		return true
	}
	if err, ok := err.(*db.Neo4jError); ok {
		switch err.Code {
		case "Neo.ClientError.Database.DatabaseNotFound",
			"Neo.ClientError.Transaction.InvalidBookmark",
			"Neo.ClientError.Transaction.InvalidBookmarkMixture",
			"Neo.ClientError.Statement.TypeError",
			"Neo.ClientError.Statement.ArgumentError",
			"Neo.ClientError.Request.Invalid":
			return true
		}
		if err.HasSecurityCode() &&
			err.Code != "Neo.ClientError.Security.AuthorizationExpired" {
			return true
		}
	}
	if err == context.DeadlineExceeded ||
		err == context.Canceled {
		return true
	}
	return false
}
