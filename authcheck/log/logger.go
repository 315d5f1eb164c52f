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

// Package log defines the logging interface used throughout the driver.
package log

import (
	"github.com/google/uuid"
)

// Component names used as the name parameter in Logger calls.
const (
	Driver = "driver"
	Pool   = "pool"
	Router = "router"
)

// Logger is used throughout the driver for logging purposes.
// Driver clients can implement this interface and provide an implementation
// upon driver creation.
//
// All logging functions take a name and an id that correspond to the name
// of the logging component and its identity, for example "router" and
// "6ba7b811" to indicate who is logging and what instance.
type Logger interface {
	Error(name string, id string, err error)
	Warnf(name string, id string, msg string, args ...any)
	Infof(name string, id string, msg string, args ...any)
	Debugf(name string, id string, msg string, args ...any)
}

// NewId returns a short identity to distinguish instances of driver
// components in the log.
func NewId() string {
	return uuid.NewString()[:8]
}
