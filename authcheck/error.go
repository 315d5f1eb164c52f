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
	"errors"

	"github.com/neo4j/neo4j-authcheck-go/authcheck/db"
	"github.com/neo4j/neo4j-authcheck-go/authcheck/internal/errorutil"
)

// Neo4jError represents errors originating from the database server.
type Neo4jError = db.Neo4jError

// UsageError represents errors caused by incorrect usage of the driver API.
// This kind of error is not persisted in the database.
type UsageError = errorutil.UsageError

// ConnectivityError represents errors caused by the driver not being able to
// connect to the server, or errors with underlying connections.
type ConnectivityError = errorutil.ConnectivityError

// TokenExpiredError represents an error caused by the token of the driver's
// authentication manager expiring.
type TokenExpiredError = errorutil.TokenExpiredError

// FeatureNotSupportedError is returned when a feature is not supported by
// the connected server.
type FeatureNotSupportedError = db.FeatureNotSupportedError

// IsNeo4jError returns true if the provided error is an instance of
// Neo4jError.
func IsNeo4jError(err error) bool {
	var neo4jError *Neo4jError
	return errors.As(err, &neo4jError)
}

// IsUsageError returns true if the provided error is an instance of
// UsageError.
func IsUsageError(err error) bool {
	var usageError *UsageError
	return errors.As(err, &usageError)
}

// IsConnectivityError returns true if the provided error is an instance of
// ConnectivityError.
func IsConnectivityError(err error) bool {
	var connectivityError *ConnectivityError
	return errors.As(err, &connectivityError)
}

// IsTokenExpiredError returns true if the provided error is an instance of
// TokenExpiredError.
func IsTokenExpiredError(err error) bool {
	var tokenExpiredError *TokenExpiredError
	return errors.As(err, &tokenExpiredError)
}
