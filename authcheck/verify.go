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
	"errors"

	"github.com/neo4j/neo4j-authcheck-go/authcheck/db"
	"github.com/neo4j/neo4j-authcheck-go/authcheck/internal/errorutil"
	"github.com/neo4j/neo4j-authcheck-go/authcheck/log"
)

// Codes the server answers a logon attempt with when it understood the
// credentials and rejected them. These turn into a negative verification
// result instead of an error.
var negativeAuthCodes = map[string]bool{
	"Neo.ClientError.Security.CredentialsExpired": true,
	"Neo.ClientError.Security.Forbidden":          true,
	"Neo.ClientError.Security.TokenExpired":       true,
	"Neo.ClientError.Security.Unauthorized":       true,
}

func (d *driver) VerifyAuthentication(ctx context.Context, auth *AuthToken) (bool, error) {
	defer d.cleanUp(ctx)
	reAuth := d.reAuthTokenFor(auth, true)
	err := d.verifyAuthentication(ctx, reAuth)
	if err == nil {
		return true, nil
	}

	var neo4jErr *db.Neo4jError
	if errors.As(err, &neo4jErr) && negativeAuthCodes[neo4jErr.Code] {
		d.log.Debugf(log.Driver, d.logId, "Credentials rejected: %s", neo4jErr.Code)
		return false, nil
	}
	var featureErr *db.FeatureNotSupportedError
	if errors.As(err, &featureErr) {
		return false, featureErr
	}
	return false, errorutil.WrapError(err)
}

// verifyAuthentication proves the operation's token against a reader of the
// system database. On protocols with a logon-only exchange the borrow alone
// is the proof, older protocols additionally need a round trip that touches
// session state.
func (d *driver) verifyAuthentication(ctx context.Context, reAuth *db.ReAuthToken) error {
	conn, err := d.borrowReader(ctx, reAuth)
	if err != nil {
		return err
	}
	defer d.pool.Return(ctx, conn)

	if conn.Version().SupportsMinimalVerification() {
		return nil
	}

	if selector, ok := conn.(db.DatabaseSelector); ok {
		selector.SelectDatabase(db.SystemDatabase)
	}
	stream, err := conn.Run(ctx, db.Command{Query: "RETURN 1"})
	if err != nil {
		return err
	}
	return conn.Consume(ctx, stream)
}
