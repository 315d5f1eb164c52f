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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeo4jErrorParsing(t *testing.T) {
	err := &Neo4jError{Code: "Neo.ClientError.General.ForbiddenReadOnlyDatabase"}
	assert.Equal(t, "ClientError", err.Classification())
	assert.Equal(t, "General", err.Category())
	assert.Equal(t, "ForbiddenReadOnlyDatabase", err.Title())
}

func TestNeo4jErrorMalformedCode(t *testing.T) {
	err := &Neo4jError{Code: "NotAProperCode"}
	assert.Empty(t, err.Classification())
	assert.Empty(t, err.Category())
	assert.Empty(t, err.Title())
}

func TestNeo4jErrorSecurityCodes(t *testing.T) {
	assert.True(t, (&Neo4jError{Code: "Neo.ClientError.Security.Unauthorized"}).HasSecurityCode())
	assert.True(t, (&Neo4jError{Code: "Neo.ClientError.Security.MadeUp"}).HasSecurityCode())
	assert.False(t, (&Neo4jError{Code: "Neo.ClientError.General.Unknown"}).HasSecurityCode())

	assert.True(t, (&Neo4jError{Code: "Neo.ClientError.Security.Unauthorized"}).IsAuthenticationFailed())
	assert.False(t, (&Neo4jError{Code: "Neo.ClientError.Security.Forbidden"}).IsAuthenticationFailed())
}

func TestProtocolVersionCapabilities(t *testing.T) {
	testCases := []struct {
		version     ProtocolVersion
		sessionAuth bool
	}{
		{ProtocolVersion{Major: 4, Minor: 4}, false},
		{ProtocolVersion{Major: 5, Minor: 0}, false},
		{ProtocolVersion{Major: 5, Minor: 1}, true},
		{ProtocolVersion{Major: 5, Minor: 4}, true},
		{ProtocolVersion{Major: 6, Minor: 0}, true},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.sessionAuth, testCase.version.SupportsSessionAuth(), "version %v", testCase.version)
		assert.Equal(t, testCase.sessionAuth, testCase.version.SupportsMinimalVerification(), "version %v", testCase.version)
	}
}
