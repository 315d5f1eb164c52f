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
	"fmt"
	"os"
	"time"
)

// Level is the type that the default logging implementation uses for
// available log levels.
type Level int

const (
	// ERROR is the level that error messages are written
	ERROR Level = 1
	// WARNING is the level that warning messages are written
	WARNING Level = 2
	// INFO is the level that info messages are written
	INFO Level = 3
	// DEBUG is the level that debug messages are written
	DEBUG Level = 4
)

// ToConsole returns a logger that writes to stdout/stderr.
func ToConsole(level Level) *Console {
	return &Console{
		Errors: level >= ERROR,
		Warns:  level >= WARNING,
		Infos:  level >= INFO,
		Debugs: level >= DEBUG,
	}
}

// 2020-05-03 12:39:45.001  ERROR  [router 1] Failed to connect
// 2020-05-03 12:39:45.001   INFO  [pool 1] Borrowed connection
type Console struct {
	Errors bool
	Infos  bool
	Warns  bool
	Debugs bool
}

const timeFormat = "2006-01-02 15:04:05.000"

func (l *Console) Error(name, id string, err error) {
	if !l.Errors {
		return
	}
	now := time.Now()
	fmt.Fprintf(os.Stderr, "%s  ERROR  [%s %s] %s\n", now.Format(timeFormat), name, id, err.Error())
}

func (l *Console) Warnf(name, id string, msg string, args ...any) {
	if !l.Warns {
		return
	}
	now := time.Now()
	fmt.Fprintf(os.Stdout, "%s   WARN  [%s %s] %s\n", now.Format(timeFormat), name, id, fmt.Sprintf(msg, args...))
}

func (l *Console) Infof(name, id string, msg string, args ...any) {
	if !l.Infos {
		return
	}
	now := time.Now()
	fmt.Fprintf(os.Stdout, "%s   INFO  [%s %s] %s\n", now.Format(timeFormat), name, id, fmt.Sprintf(msg, args...))
}

func (l *Console) Debugf(name, id string, msg string, args ...any) {
	if !l.Debugs {
		return
	}
	now := time.Now()
	fmt.Fprintf(os.Stdout, "%s  DEBUG  [%s %s] %s\n", now.Format(timeFormat), name, id, fmt.Sprintf(msg, args...))
}

// Void is a logger that swallows everything, the default when no logger is
// configured.
type Void struct{}

func (v Void) Error(string, string, error)         {}
func (v Void) Warnf(string, string, string, ...any) {}
func (v Void) Infof(string, string, string, ...any) {}
func (v Void) Debugf(string, string, string, ...any) {}
