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
	"context"

	"github.com/neo4j/neo4j-authcheck-go/authcheck/db"
)

// directRouter is a router that always routes to the same server, used when
// the URL scheme opts out of cluster routing.
type directRouter struct {
	address string
}

func (r *directRouter) GetOrUpdateReaders(context.Context, []string, string, *db.ReAuthToken) ([]string, error) {
	return []string{r.address}, nil
}

func (r *directRouter) GetOrUpdateWriters(context.Context, []string, string, *db.ReAuthToken) ([]string, error) {
	return []string{r.address}, nil
}

func (r *directRouter) Invalidate(string) {}

func (r *directRouter) CleanUp() {}
