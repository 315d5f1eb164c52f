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
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/neo4j/neo4j-authcheck-go/authcheck/log"
)

var _ = Describe("Config", func() {
	Context("DefaultConfig", func() {
		config := defaultConfig()

		It("should have max connection pool size of 100", func() {
			Expect(config.MaxConnectionPoolSize).To(BeIdenticalTo(100))
		})

		It("should have connection acquisition timeout of 1m", func() {
			Expect(config.ConnectionAcquisitionTimeout).To(BeIdenticalTo(1 * time.Minute))
		})

		It("should have max connection lifetime of 1h", func() {
			Expect(config.MaxConnectionLifetime).To(BeIdenticalTo(1 * time.Hour))
		})

		It("should have backwards compatible auth turned off", func() {
			Expect(config.BackwardsCompatibleAuth).To(BeFalse())
		})

		It("should have no-op logger", func() {
			Expect(config.Log).To(BeIdenticalTo(log.Void{}))
		})
	})

	Context("validateAndNormaliseConfig", func() {
		It("should reject missing connector", func() {
			config := defaultConfig()

			err := validateAndNormaliseConfig(config)
			Expect(err).To(HaveOccurred())
		})

		It("should reject zero pool size", func() {
			config := defaultConfig()
			config.Connect = noopConnector
			config.MaxConnectionPoolSize = 0

			err := validateAndNormaliseConfig(config)
			Expect(err).To(HaveOccurred())
		})

		It("should replace a nil logger with the no-op logger", func() {
			config := defaultConfig()
			config.Connect = noopConnector
			config.Log = nil

			err := validateAndNormaliseConfig(config)
			Expect(err).NotTo(HaveOccurred())
			Expect(config.Log).NotTo(BeNil())
		})
	})
})
