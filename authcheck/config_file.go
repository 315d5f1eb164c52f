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
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// ConnectionSettings is the on-disk representation of a driver target,
// suitable for tooling that verifies credentials from a settings file.
type ConnectionSettings struct {
	URI  string `yaml:"uri"`
	Auth struct {
		Scheme   string `yaml:"scheme"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Realm    string `yaml:"realm"`
		Ticket   string `yaml:"ticket"`
		Token    string `yaml:"token"`
	} `yaml:"auth"`
	MaxConnectionPoolSize        int    `yaml:"max-connection-pool-size"`
	MaxConnectionLifetime        string `yaml:"max-connection-lifetime"`
	ConnectionAcquisitionTimeout string `yaml:"connection-acquisition-timeout"`
	BackwardsCompatibleAuth      bool   `yaml:"backwards-compatible-auth"`
}

// ReadSettingsFile loads connection settings from a YAML file.
func ReadSettingsFile(path string) (*ConnectionSettings, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	settings := ConnectionSettings{}
	if err := yaml.Unmarshal(content, &settings); err != nil {
		return nil, &UsageError{Message: fmt.Sprintf("Failed to parse settings file %s: %s", path, err)}
	}
	if settings.URI == "" {
		return nil, &UsageError{Message: fmt.Sprintf("Settings file %s has no uri", path)}
	}
	for setting, value := range map[string]string{
		"connection-acquisition-timeout": settings.ConnectionAcquisitionTimeout,
		"max-connection-lifetime":        settings.MaxConnectionLifetime,
	} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return nil, &UsageError{Message: fmt.Sprintf("Invalid %s in %s: %s", setting, path, err)}
		}
	}
	return &settings, nil
}

// AuthToken builds the auth token the settings describe.
func (s *ConnectionSettings) AuthToken() (AuthToken, error) {
	switch s.Auth.Scheme {
	case "", "none":
		return NoAuth(), nil
	case "basic":
		return BasicAuth(s.Auth.Username, s.Auth.Password, s.Auth.Realm), nil
	case "kerberos":
		return KerberosAuth(s.Auth.Ticket), nil
	case "bearer":
		return BearerAuth(s.Auth.Token), nil
	default:
		return AuthToken{}, &UsageError{Message: fmt.Sprintf("Unknown auth scheme '%s' in settings", s.Auth.Scheme)}
	}
}

// Configurer applies the settings' tuning options to a driver Config.
func (s *ConnectionSettings) Configurer(config *Config) {
	if s.MaxConnectionPoolSize > 0 {
		config.MaxConnectionPoolSize = s.MaxConnectionPoolSize
	}
	if s.ConnectionAcquisitionTimeout != "" {
		if timeout, err := time.ParseDuration(s.ConnectionAcquisitionTimeout); err == nil {
			config.ConnectionAcquisitionTimeout = timeout
		}
	}
	if s.MaxConnectionLifetime != "" {
		if lifetime, err := time.ParseDuration(s.MaxConnectionLifetime); err == nil {
			config.MaxConnectionLifetime = lifetime
		}
	}
	config.BackwardsCompatibleAuth = s.BackwardsCompatibleAuth
}
