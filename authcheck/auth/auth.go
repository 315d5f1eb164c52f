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

// Package auth holds the credential types shared between the public driver
// surface and the connection layer.
package auth

import (
	"context"
	"reflect"
)

// Token contains credentials to be sent to the server during logon.
// The map holds the scheme and all scheme-specific fields and is opaque to
// the driver, it is forwarded to the server as-is. A Token is immutable
// once constructed.
type Token struct {
	Tokens map[string]any
}

// Equals reports whether two tokens carry the same credentials.
func (t Token) Equals(other Token) bool {
	return reflect.DeepEqual(t.Tokens, other.Tokens)
}

// TokenManager is an interface for components that can provide auth tokens.
// Custom implementations can be used to provide credential rotation. The
// manager must not interact with the driver in any way as this can cause
// deadlocks, and it is expected to be thread-safe.
type TokenManager interface {
	// GetAuthToken retrieves the token currently in force or returns an
	// error if the retrieval fails. The token returned must always belong
	// to the same identity.
	GetAuthToken(ctx context.Context) (Token, error)
}

type staticTokenManager struct {
	token Token
}

func (m staticTokenManager) GetAuthToken(context.Context) (Token, error) {
	return m.token, nil
}

// Static returns a TokenManager that always hands out the given token.
func Static(token Token) TokenManager {
	return staticTokenManager{token: token}
}
