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

// Package testutil contains shared test functionality
package testutil

import (
	"reflect"
	"testing"

	"github.com/neo4j/neo4j-authcheck-go/authcheck/db"
)

func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Expected no error but was %T: %s", err, err)
	}
}

func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected an error but it wasn't")
	}
}

func AssertNeo4jError(t *testing.T, err error, code string) {
	t.Helper()
	AssertError(t, err)
	neo4jErr, isNeo4jErr := err.(*db.Neo4jError)
	if !isNeo4jErr {
		t.Fatalf("Expected database error but was %T: %s", err, err)
	}
	if neo4jErr.Code != code {
		t.Errorf("Expected error code '%s' but was '%s'", code, neo4jErr.Code)
	}
}

func AssertFeatureNotSupportedError(t *testing.T, err error) {
	t.Helper()
	AssertError(t, err)
	if _, ok := err.(*db.FeatureNotSupportedError); !ok {
		t.Errorf("Expected feature not supported error but was %T: %s", err, err)
	}
}

func AssertNil(t *testing.T, x any) {
	t.Helper()
	if x != nil && !reflect.ValueOf(x).IsNil() {
		t.Errorf("Expected nil but was %T: %s", x, x)
	}
}

func AssertNotNil(t *testing.T, x any) {
	t.Helper()
	if x == nil || reflect.ValueOf(x).IsNil() {
		t.Fatal("Expected not nil")
	}
}

func AssertTrue(t *testing.T, b bool) {
	t.Helper()
	if !b {
		t.Error("Expected true but was false")
	}
}

func AssertFalse(t *testing.T, b bool) {
	t.Helper()
	if b {
		t.Error("Expected false but was true")
	}
}

func AssertLen(t *testing.T, x any, el int) {
	t.Helper()
	al := reflect.ValueOf(x).Len()
	if al != el {
		t.Errorf("Expected length %d but was %d", el, al)
	}
}

func AssertStringEqual(t *testing.T, as, es string) {
	t.Helper()
	if as != es {
		t.Errorf("'%s' != '%s'", as, es)
	}
}

func AssertIntEqual(t *testing.T, ai, ei int) {
	t.Helper()
	if ai != ei {
		t.Errorf("%d != %d", ai, ei)
	}
}
