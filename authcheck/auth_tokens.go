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
	"github.com/neo4j/neo4j-authcheck-go/authcheck/auth"
)

const keyScheme = "scheme"
const keyPrincipal = "principal"
const keyCredentials = "credentials"
const keyRealm = "realm"
const keyTicket = "ticket"

// AuthToken contains credentials to be sent over to the server.
type AuthToken = auth.Token

// NoAuth generates an empty authentication token
func NoAuth() AuthToken {
	return AuthToken{Tokens: map[string]any{
		keyScheme: "none",
	}}
}

// BasicAuth generates a basic authentication token with provided username,
// password and realm
func BasicAuth(username string, password string, realm string) AuthToken {
	token := AuthToken{Tokens: map[string]any{
		keyScheme:      "basic",
		keyPrincipal:   username,
		keyCredentials: password,
	}}

	if realm != "" {
		token.Tokens[keyRealm] = realm
	}

	return token
}

// KerberosAuth generates a kerberos authentication token with provided
// base-64 encoded kerberos ticket
func KerberosAuth(ticket string) AuthToken {
	token := AuthToken{Tokens: map[string]any{
		keyScheme: "kerberos",
		// Backwards compatibility: auth token explicitly supports
		// principal field
		keyPrincipal: "",
		keyTicket:    ticket,
	}}

	return token
}

// BearerAuth generates an authentication token with the provided
// base-64 value generated by a Single-Sign-On provider
func BearerAuth(token string) AuthToken {
	result := AuthToken{Tokens: map[string]any{
		keyScheme:      "bearer",
		keyCredentials: token,
	}}

	return result
}

// CustomAuth generates a custom authentication token with provided parameters
func CustomAuth(scheme string, username string, password string, realm string, parameters map[string]any) AuthToken {
	token := AuthToken{Tokens: map[string]any{
		keyScheme:    scheme,
		keyPrincipal: username,
	}}

	if password != "" {
		token.Tokens[keyCredentials] = password
	}

	if realm != "" {
		token.Tokens[keyRealm] = realm
	}

	if len(parameters) > 0 {
		token.Tokens["parameters"] = parameters
	}

	return token
}
