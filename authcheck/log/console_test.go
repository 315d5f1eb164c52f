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

package log

import (
	"testing"
)

func TestToConsoleLevels(t *testing.T) {
	testCases := []struct {
		level  Level
		errors bool
		warns  bool
		infos  bool
		debugs bool
	}{
		{ERROR, true, false, false, false},
		{WARNING, true, true, false, false},
		{INFO, true, true, true, false},
		{DEBUG, true, true, true, true},
	}
	for _, testCase := range testCases {
		logger := ToConsole(testCase.level)
		if logger.Errors != testCase.errors || logger.Warns != testCase.warns ||
			logger.Infos != testCase.infos || logger.Debugs != testCase.debugs {
			t.Errorf("level %d: unexpected configuration %+v", testCase.level, logger)
		}
	}
}

func TestNewId(t *testing.T) {
	id := NewId()
	if len(id) != 8 {
		t.Errorf("expected an 8 character id, got %q", id)
	}
	if id == NewId() {
		t.Error("expected ids to differ")
	}
}
