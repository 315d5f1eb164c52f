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
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Authentication Tokens", func() {
	Context("NoAuth", func() {
		It("should only contain scheme=none", func() {
			token := NoAuth()

			tokenMap := token.Tokens

			Expect(tokenMap).To(HaveLen(1))
			Expect(tokenMap).To(HaveKeyWithValue(keyScheme, "none"))
		})
	})

	Context("BasicAuth", func() {
		It("should include scheme, username and password only when realm is empty", func() {
			token := BasicAuth("test", "1234", "")

			tokenMap := token.Tokens

			Expect(tokenMap).To(HaveLen(3))
			Expect(tokenMap).To(HaveKeyWithValue(keyScheme, "basic"))
			Expect(tokenMap).To(HaveKeyWithValue(keyPrincipal, "test"))
			Expect(tokenMap).To(HaveKeyWithValue(keyCredentials, "1234"))
		})

		It("should include scheme, username, password and realm", func() {
			token := BasicAuth("test", "1234", "a_realm")

			tokenMap := token.Tokens

			Expect(tokenMap).To(HaveLen(4))
			Expect(tokenMap).To(HaveKeyWithValue(keyScheme, "basic"))
			Expect(tokenMap).To(HaveKeyWithValue(keyPrincipal, "test"))
			Expect(tokenMap).To(HaveKeyWithValue(keyCredentials, "1234"))
			Expect(tokenMap).To(HaveKeyWithValue(keyRealm, "a_realm"))
		})
	})

	Context("KerberosAuth", func() {
		It("should include provided ticket", func() {
			token := KerberosAuth("ticket_data")

			tokenMap := token.Tokens

			Expect(tokenMap).To(HaveLen(3))
			Expect(tokenMap).To(HaveKeyWithValue(keyScheme, "kerberos"))
			Expect(tokenMap).To(HaveKeyWithValue(keyTicket, "ticket_data"))
		})
	})

	Context("BearerAuth", func() {
		It("should include provided token as credentials", func() {
			token := BearerAuth("token_data")

			tokenMap := token.Tokens

			Expect(tokenMap).To(HaveLen(2))
			Expect(tokenMap).To(HaveKeyWithValue(keyScheme, "bearer"))
			Expect(tokenMap).To(HaveKeyWithValue(keyCredentials, "token_data"))
		})
	})

	Context("CustomAuth", func() {
		It("should include scheme, username, password", func() {
			token := CustomAuth("custom", "un", "pw", "", nil)

			tokenMap := token.Tokens

			Expect(tokenMap).To(HaveLen(3))
			Expect(tokenMap).To(HaveKeyWithValue(keyScheme, "custom"))
			Expect(tokenMap).To(HaveKeyWithValue(keyPrincipal, "un"))
			Expect(tokenMap).To(HaveKeyWithValue(keyCredentials, "pw"))
		})

		It("should include scheme, username, password, realm and parameters", func() {
			token := CustomAuth("custom", "un", "pw", "realm", map[string]any{"user_id": 1})

			tokenMap := token.Tokens

			Expect(tokenMap).To(HaveLen(5))
			Expect(tokenMap).To(HaveKeyWithValue(keyScheme, "custom"))
			Expect(tokenMap).To(HaveKeyWithValue(keyPrincipal, "un"))
			Expect(tokenMap).To(HaveKeyWithValue(keyCredentials, "pw"))
			Expect(tokenMap).To(HaveKeyWithValue(keyRealm, "realm"))
			Expect(tokenMap).To(HaveKey("parameters"))
		})
	})

	Context("Equals", func() {
		It("should treat identical tokens as equal", func() {
			Expect(BasicAuth("a", "b", "").Equals(BasicAuth("a", "b", ""))).To(BeTrue())
		})

		It("should treat different tokens as not equal", func() {
			Expect(BasicAuth("a", "b", "").Equals(BasicAuth("a", "c", ""))).To(BeFalse())
		})
	})
})
