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
	"fmt"
	"io"
	"net"

	"github.com/neo4j/neo4j-authcheck-go/authcheck/db"
)

// WrapError translates low-level failures into the error types exposed to
// driver users. Classification happens once, as close to the network call
// as possible, and the result is preserved unchanged up the call chain.
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	if err == io.EOF {
		return &ConnectivityError{Inner: err}
	}
	switch e := err.(type) {
	case *db.FeatureNotSupportedError:
		return &UsageError{Message: fmt.Sprintf("feature not supported: %s", err.Error())}
	case *PoolClosed:
		return &UsageError{Message: err.Error()}
	case net.Error:
		return &ConnectivityError{Inner: err}
	case *PoolTimeout, *PoolFull:
		return &ConnectivityError{Inner: err}
	case *db.ProtocolError:
		return &ConnectivityError{Inner: err}
	case *ReadRoutingTableError:
		return &ConnectivityError{Inner: err}
	case *db.Neo4jError:
		if e.Code == "Neo.ClientError.Security.TokenExpired" {
			return &TokenExpiredError{Code: e.Code, Message: e.Msg, cause: e}
		}
	}
	return err
}

// UsageError represents errors caused by incorrect usage of the driver API.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// ConnectivityError represents errors caused by the driver not being able
// to connect to the server, or lost connections.
type ConnectivityError struct {
	Inner error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("ConnectivityError: %s", e.Inner.Error())
}

func (e *ConnectivityError) Unwrap() error {
	return e.Inner
}

// TokenExpiredError represents the server rejecting the supplied auth token
// because it has expired.
type TokenExpiredError struct {
	Code    string
	Message string
	cause   *db.Neo4jError
}

func (e *TokenExpiredError) Unwrap() error {
	return e.cause
}

func (e *TokenExpiredError) Error() string {
	return fmt.Sprintf("TokenExpiredError: %s (%s)", e.Code, e.Message)
}
