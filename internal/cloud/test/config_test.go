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

// This file tests the hierarchical TOML configuration loader: the base
// file supplies every value and the test runtime file overrides what
// differs.
package cloud_test

import (
	"os"
	"testing"

	"github.com/zeebo/assert"

	"github.com/CE-Demos/veo-clip-transitions/internal/cloud"
)

// loadTestConfig points the loader at the repository's configs directory
// relative to this package and loads the "test" runtime.
func loadTestConfig(t *testing.T) *cloud.Config {
	t.Helper()
	assert.NoError(t, os.Setenv(cloud.EnvConfigFilePrefix, "../../../configs/"))
	assert.NoError(t, os.Setenv(cloud.EnvConfigRuntime, "test"))
	config := cloud.NewConfig()
	cloud.LoadConfig(config)
	return config
}

func TestLoadConfigAppliesTestOverrides(t *testing.T) {
	config := loadTestConfig(t)

	// Overridden by .env.test.toml.
	assert.Equal(t, "veo-clip-transitions-test", config.Application.Name)
	assert.Equal(t, "composition_input_resources_test", config.Storage.InputBucket)
	assert.Equal(t, "compositions_ds_test", config.BigQueryDataSource.DatasetName)

	// Inherited from the base file.
	assert.Equal(t, "runs", config.BigQueryDataSource.RunTable)
	assert.Equal(t, "compositions", config.Storage.OutputPrefix)
	assert.Equal(t, "bridges", config.Storage.BridgePrefix)
	assert.Equal(t, "cut", config.Transitions.DefaultKind)
	assert.Equal(t, 0.5, config.Transitions.DefaultDuration)
}

func TestLoadConfigVeoModel(t *testing.T) {
	config := loadTestConfig(t)

	veo, ok := config.VeoModels["bridge"]
	assert.True(t, ok)
	assert.Equal(t, "veo-2.0-generate-001", veo.Model)
	assert.Equal(t, 5, veo.DurationSeconds)
	assert.Equal(t, 2, veo.DecimationPasses)
	assert.Equal(t, 2.0, veo.SpeedFactor)
	// The test runtime shortens polling so suite runs stay fast.
	assert.Equal(t, 1, veo.PollIntervalSeconds)
	assert.Equal(t, 10, veo.MaxPollAttempts)
}

func TestLoadConfigSubscriptions(t *testing.T) {
	config := loadTestConfig(t)

	sub, ok := config.TopicSubscriptions["ComposeRequests"]
	assert.True(t, ok)
	assert.Equal(t, "compose-requests-sub-test", sub.Name)
	assert.Equal(t, "compose-requests-test", sub.Topic)
	assert.Equal(t, 60, sub.TimeoutInSeconds)
}

// TestLoadConfigMergesPartialMapTables pins the merge semantics of map
// tables: a runtime entry that sets only some fields keeps the rest of the
// base entry, entries absent from the override survive, new entries are
// added, and an explicit zero in the override wins over the base value.
func TestLoadConfigMergesPartialMapTables(t *testing.T) {
	dir := t.TempDir()
	base := `
[veo_models.bridge]
model = "veo-2.0-generate-001"
duration_seconds = 5
decimation_passes = 2
poll_interval_seconds = 10

[veo_models.alt]
model = "veo-alt"

[topic_subscriptions.ComposeRequests]
name = "compose-requests-sub"
timeout_in_seconds = 60
`
	override := `
[veo_models.bridge]
poll_interval_seconds = 1
decimation_passes = 0

[veo_models.extra]
model = "veo-extra"
`
	assert.NoError(t, os.WriteFile(dir+"/.env.toml", []byte(base), 0o644))
	assert.NoError(t, os.WriteFile(dir+"/.env.unit.toml", []byte(override), 0o644))
	assert.NoError(t, os.Setenv(cloud.EnvConfigFilePrefix, dir+"/"))
	assert.NoError(t, os.Setenv(cloud.EnvConfigRuntime, "unit"))

	config := cloud.NewConfig()
	cloud.LoadConfig(config)

	bridge := config.VeoModels["bridge"]
	assert.Equal(t, "veo-2.0-generate-001", bridge.Model)
	assert.Equal(t, 5, bridge.DurationSeconds)
	assert.Equal(t, 1, bridge.PollIntervalSeconds)
	assert.Equal(t, 0, bridge.DecimationPasses)

	assert.Equal(t, "veo-alt", config.VeoModels["alt"].Model)
	assert.Equal(t, "veo-extra", config.VeoModels["extra"].Model)

	sub := config.TopicSubscriptions["ComposeRequests"]
	assert.Equal(t, "compose-requests-sub", sub.Name)
	assert.Equal(t, 60, sub.TimeoutInSeconds)
}
