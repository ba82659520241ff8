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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files. It provides a structured way to manage settings
// for Google Cloud services, the Veo generation model, storage buckets,
// Pub/Sub topics, and transition defaults.
//
// Structs:
//   - BigQueryDataSource: Configuration for the BigQuery dataset and run table.
//   - VeoModel: Configuration for a Veo video generation model.
//   - TopicSubscription: Configuration for a single Pub/Sub topic subscription.
//   - Storage: Configuration for Google Cloud Storage buckets and prefixes.
//   - Transitions: Engine-level transition defaults.
//   - Config: The top-level struct that aggregates all other configuration structs.
//
// Functions:
//   - NewConfig: A constructor that initializes a new Config object with empty maps.
package cloud

// BigQueryDataSource represents the configuration for a BigQuery data source.
type BigQueryDataSource struct {
	DatasetName string `toml:"dataset"`   // The name of the BigQuery dataset.
	RunTable    string `toml:"run_table"` // The name of the table composition runs are recorded in.
}

// VeoModel represents the configuration for a Veo video generation model
// used for bridge interpolation.
type VeoModel struct {
	Model               string  `toml:"model"`                 // The Veo model name (e.g., "veo-2.0-generate-001").
	DurationSeconds     int     `toml:"duration_seconds"`      // The raw duration requested per generated clip.
	DecimationPasses    int     `toml:"decimation_passes"`     // Halving frame-removal passes applied after download.
	SpeedFactor         float64 `toml:"speed_factor"`          // Playback speed-up applied after decimation.
	PollIntervalSeconds int     `toml:"poll_interval_seconds"` // The wait between operation status requests.
	MaxPollAttempts     int     `toml:"max_poll_attempts"`     // The ceiling on status requests per operation.
	RateLimit           int     `toml:"rate_limit"`            // The submission rate limit in requests per minute.
}

// TopicSubscription represents the configuration for a Pub/Sub topic subscription.
type TopicSubscription struct {
	Name             string `toml:"name"`               // The name of the Pub/Sub subscription.
	Topic            string `toml:"topic"`              // The name of the topic the subscription is attached to, used when publishing.
	DeadLetterTopic  string `toml:"dead_letter_topic"`  // The name of the dead-letter topic for the subscription.
	TimeoutInSeconds int    `toml:"timeout_in_seconds"` // The timeout for the subscription in seconds.
}

// Storage represents the configuration for storage buckets and prefixes.
type Storage struct {
	InputBucket                string `toml:"input_bucket"`                  // The bucket clip folders are read from.
	OutputBucket               string `toml:"output_bucket"`                 // The bucket finished compositions are written to.
	OutputPrefix               string `toml:"output_prefix"`                 // The object prefix for finished compositions.
	BridgePrefix               string `toml:"bridge_prefix"`                 // The object prefix raw generated bridge clips land under.
	SignedURLExpirationMinutes int    `toml:"signed_url_expiration_minutes"` // How long signed output URLs stay valid.
}

// Transitions holds the engine-level transition defaults applied when a
// composition request leaves a field unset.
type Transitions struct {
	DefaultKind     string  `toml:"default_kind"`     // The transition used when a request names none.
	DefaultDuration float64 `toml:"default_duration"` // The overlap window in seconds.
	FadeColor       string  `toml:"fade_color"`       // The color fades dip through.
	SlideDirection  string  `toml:"slide_direction"`  // The edge slides enter from.
	BridgePrompt    string  `toml:"bridge_prompt"`    // The default prompt for bridge interpolation.
	Workers         int     `toml:"workers"`          // The concurrent strategy evaluation bound.
}

// Config represents the overall configuration for the application, loaded
// from TOML files. It acts as the root container for all other
// configuration structs.
type Config struct {
	// Application holds general application settings.
	Application struct {
		Name                      string `toml:"name"`                         // The name of the application.
		GoogleProjectId           string `toml:"google_project_id"`            // The Google Cloud project ID.
		GoogleLocation            string `toml:"location"`                     // The Google Cloud location.
		ThreadPoolSize            int    `toml:"thread_pool_size"`             // The size of the worker pool for parallel processing tasks.
		SignerServiceAccountEmail string `toml:"signer_service_account_email"` // The service account email used for signing GCS URLs.
		FFmpegPath                string `toml:"ffmpeg_path"`                  // Optional pinned path to the ffmpeg binary.
		FFprobePath               string `toml:"ffprobe_path"`                 // Optional pinned path to the ffprobe binary.
	} `toml:"application"`
	Storage            Storage                      `toml:"storage"`               // Storage configuration.
	BigQueryDataSource BigQueryDataSource           `toml:"big_query_data_source"` // BigQuery data source configuration.
	Transitions        Transitions                  `toml:"transitions"`           // Transition defaults.
	TopicSubscriptions map[string]TopicSubscription `toml:"topic_subscriptions"`   // A map of Pub/Sub topic subscriptions, keyed by a logical name (e.g., "ComposeRequests").
	VeoModels          map[string]VeoModel          `toml:"veo_models"`            // A map of Veo generation models, keyed by a logical name (e.g., "bridge").
}

// NewConfig is a constructor function that creates a new, initialized Config
// instance. The maps must be initialized up front so the configuration
// loader can populate them without nil checks.
func NewConfig() *Config {
	return &Config{
		TopicSubscriptions: make(map[string]TopicSubscription),
		VeoModels:          make(map[string]VeoModel),
	}
}
