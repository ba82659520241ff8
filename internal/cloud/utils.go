// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cloud provides components for interacting with Google Cloud services.
// This file contains general-purpose utility functions that support the cloud package.
//
// Functions:
//   - fileExists: A simple helper to check if a file exists.
//   - LoadConfig: Implements a hierarchical configuration loader. It first reads a base
//     configuration file and then overwrites values with a second, environment-specific
//     file (e.g., .env.local.toml, .env.test.toml). The environment is determined by
//     an environment variable.
package cloud

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Cloud Constants define key strings and values used for configuration loading.
const (
	ConfigFileBaseName  = ".env"              // The base name for configuration files (e.g., ".env.toml").
	ConfigFileExtension = ".toml"             // The file extension for configuration files.
	ConfigSeparator     = "."                 // The separator used in config file names (e.g., ".env.local.toml").
	EnvConfigFilePrefix = "GCP_CONFIG_PREFIX" // The environment variable for specifying the config directory.
	EnvConfigRuntime    = "GCP_RUNTIME"       // The environment variable for specifying the runtime context (e.g., "local", "test", "prod").
)

// fileExists checks if a file or directory exists at the given path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig provides a hierarchical configuration loading mechanism. It
// first loads a base configuration file and then merges the values of an
// environment-specific configuration file over it. The paths and
// environment are determined by environment variables.
//
// Inputs:
//   - config: The target configuration struct that will be populated from
//     the TOML files.
func LoadConfig(config *Config) {
	// Read the directory path for config files from an environment variable.
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	// Ensure the prefix ends with a path separator if it's not empty.
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	// Read the runtime environment (e.g., "local", "test") from an environment variable.
	// Default to "test" if the variable is not set.
	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "test"
	}

	// Construct the path for the base configuration file (e.g., "configs/.env.toml").
	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	fmt.Printf("Base Configuration File: %s\n", baseConfigFileName)

	// Construct the path for the environment-specific override file (e.g., "configs/.env.test.toml").
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension
	fmt.Printf("Environment Configuration File: %s\n", envConfigFileName)

	// If the base configuration file exists, decode it into the config struct.
	if fileExists(baseConfigFileName) {
		_, err := toml.DecodeFile(baseConfigFileName, config)
		if err != nil {
			log.Fatalf("failed to decode base configuration file %s with error: %s", baseConfigFileName, err)
		}
	}

	// If the environment-specific configuration file exists, merge it over
	// the base values.
	if fileExists(envConfigFileName) {
		overlayConfig(envConfigFileName, config)
	}
}

// overlayConfig decodes an override file on top of an already loaded
// configuration. Struct sections merge key by key because the decoder only
// touches fields the file defines, but map tables are replaced entry by
// entry, so a partial entry like a test override of just the polling fields
// would wipe the rest of the base entry. The maps are therefore decoded
// into fresh storage and merged back field by field, with the decode
// metadata telling an explicit zero apart from an omitted key.
func overlayConfig(fileName string, config *Config) {
	baseSubscriptions := config.TopicSubscriptions
	baseModels := config.VeoModels
	config.TopicSubscriptions = make(map[string]TopicSubscription)
	config.VeoModels = make(map[string]VeoModel)

	md, err := toml.DecodeFile(fileName, config)
	if err != nil {
		log.Fatalf("failed to decode environment configuration file: %s with error: %s", fileName, err)
	}

	for key, override := range config.TopicSubscriptions {
		if base, ok := baseSubscriptions[key]; ok {
			config.TopicSubscriptions[key] = mergeSubscription(base, override, md, key)
		}
	}
	for key, base := range baseSubscriptions {
		if _, ok := config.TopicSubscriptions[key]; !ok {
			config.TopicSubscriptions[key] = base
		}
	}

	for key, override := range config.VeoModels {
		if base, ok := baseModels[key]; ok {
			config.VeoModels[key] = mergeVeoModel(base, override, md, key)
		}
	}
	for key, base := range baseModels {
		if _, ok := config.VeoModels[key]; !ok {
			config.VeoModels[key] = base
		}
	}
}

func mergeSubscription(base, override TopicSubscription, md toml.MetaData, key string) TopicSubscription {
	out := base
	if md.IsDefined("topic_subscriptions", key, "name") {
		out.Name = override.Name
	}
	if md.IsDefined("topic_subscriptions", key, "topic") {
		out.Topic = override.Topic
	}
	if md.IsDefined("topic_subscriptions", key, "dead_letter_topic") {
		out.DeadLetterTopic = override.DeadLetterTopic
	}
	if md.IsDefined("topic_subscriptions", key, "timeout_in_seconds") {
		out.TimeoutInSeconds = override.TimeoutInSeconds
	}
	return out
}

func mergeVeoModel(base, override VeoModel, md toml.MetaData, key string) VeoModel {
	out := base
	if md.IsDefined("veo_models", key, "model") {
		out.Model = override.Model
	}
	if md.IsDefined("veo_models", key, "duration_seconds") {
		out.DurationSeconds = override.DurationSeconds
	}
	if md.IsDefined("veo_models", key, "decimation_passes") {
		out.DecimationPasses = override.DecimationPasses
	}
	if md.IsDefined("veo_models", key, "speed_factor") {
		out.SpeedFactor = override.SpeedFactor
	}
	if md.IsDefined("veo_models", key, "poll_interval_seconds") {
		out.PollIntervalSeconds = override.PollIntervalSeconds
	}
	if md.IsDefined("veo_models", key, "max_poll_attempts") {
		out.MaxPollAttempts = override.MaxPollAttempts
	}
	if md.IsDefined("veo_models", key, "rate_limit") {
		out.RateLimit = override.RateLimit
	}
	return out
}
