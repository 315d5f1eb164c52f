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

package db

import (
	"fmt"
	"strings"
)

// Neo4jError is created when the database server failed to fulfill a
// request. The code is kept verbatim as reported by the server, callers
// match on it with exact string equality.
type Neo4jError struct {
	Code string
	Msg  string

	parsed         bool
	classification string
	category       string
	title          string
}

func (e *Neo4jError) Error() string {
	return fmt.Sprintf("Neo4jError: %s (%s)", e.Code, e.Msg)
}

func (e *Neo4jError) Classification() string {
	e.parse()
	return e.classification
}

func (e *Neo4jError) Category() string {
	e.parse()
	return e.category
}

func (e *Neo4jError) Title() string {
	e.parse()
	return e.title
}

// parse splits the code into usable parts.
// Code Neo.ClientError.General.ForbiddenReadOnlyDatabase is split into:
//
//	Classification: ClientError
//	Category: General
//	Title: ForbiddenReadOnlyDatabase
func (e *Neo4jError) parse() {
	if e.parsed {
		return
	}
	e.parsed = true
	parts := strings.Split(e.Code, ".")
	if len(parts) != 4 {
		return
	}
	e.classification = parts[1]
	e.category = parts[2]
	e.title = parts[3]
}

func (e *Neo4jError) HasSecurityCode() bool {
	return strings.HasPrefix(e.Code, "Neo.ClientError.Security.")
}

func (e *Neo4jError) IsAuthenticationFailed() bool {
	return e.Code == "Neo.ClientError.Security.Unauthorized"
}

// FeatureNotSupportedError is synthesized locally when the negotiated
// protocol version cannot support a requested mode of operation.
type FeatureNotSupportedError struct {
	Server  string
	Feature string
	Reason  string
}

func (e *FeatureNotSupportedError) Error() string {
	return fmt.Sprintf("Server %s does not support: %s (%s)", e.Server, e.Feature, e.Reason)
}

// ProtocolError indicates that the connection is out of sync with the
// server. A connection reporting it is no longer usable.
type ProtocolError struct {
	MessageType string
	Err         string
}

func (e *ProtocolError) Error() string {
	if e.MessageType == "" {
		return fmt.Sprintf("ProtocolError: %s", e.Err)
	}
	return fmt.Sprintf("ProtocolError: message %s: %s", e.MessageType, e.Err)
}
