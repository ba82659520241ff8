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

// Package services contains the business logic for interacting with data
// sources. This file defines the RunService, which retrieves composition
// run records from BigQuery and generates secure, time-limited URLs for
// downloading finished compositions from Google Cloud Storage.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	credentials "cloud.google.com/go/iam/credentials/apiv1"
	"cloud.google.com/go/iam/credentials/apiv1/credentialspb"
	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/CE-Demos/veo-clip-transitions/internal/cloud"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
)

// ErrRunNotFound is returned when no run record matches the requested ID.
var ErrRunNotFound = errors.New("composition run not found")

// RunService is the data access layer for composition run records. It
// abstracts the details of querying BigQuery and signing GCS URLs.
type RunService struct {
	BigqueryClient *bigquery.Client                  // Client for interacting with Google BigQuery.
	StorageClient  *storage.Client                   // Client for interacting with Google Cloud Storage.
	IAMClient      *credentials.IamCredentialsClient // Client for the IAM Credentials API, used for signing URLs.
	SignerEmail    string                            // The service account email used to sign URLs.
	DatasetName    string                            // The name of the BigQuery dataset.
	RunTable       string                            // The name of the BigQuery table holding run records.
}

// GetFQN returns the complete, queryable name for the run table in
// BigQuery, formatted with dots instead of colons.
// Example: `gcp-project-id.compositions_ds.runs`
func (s *RunService) GetFQN() string {
	fqn := s.BigqueryClient.Dataset(s.DatasetName).Table(s.RunTable).FullyQualifiedName()
	return strings.Replace(fqn, ":", ".", -1)
}

// Get retrieves a single run record by its run ID.
func (s *RunService) Get(ctx context.Context, runID string) (*model.CompositionRun, error) {
	q := s.BigqueryClient.Query(fmt.Sprintf(QryFindRunById, s.GetFQN()))
	q.Parameters = []bigquery.QueryParameter{{Name: "run_id", Value: runID}}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}
	run := &model.CompositionRun{}
	if err := itr.Next(run); err != nil {
		if errors.Is(err, iterator.Done) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	return run, nil
}

// List retrieves the most recent run records, newest first.
func (s *RunService) List(ctx context.Context, limit int) ([]*model.CompositionRun, error) {
	if limit <= 0 {
		limit = 50
	}
	q := s.BigqueryClient.Query(fmt.Sprintf(QryListRuns, s.GetFQN(), limit))
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}
	var runs []*model.CompositionRun
	for {
		run := &model.CompositionRun{}
		err := itr.Next(run)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// ListByFolder retrieves the run records for one input folder, newest
// first. Useful for tracing the history of a clip set.
func (s *RunService) ListByFolder(ctx context.Context, folder string) ([]*model.CompositionRun, error) {
	q := s.BigqueryClient.Query(fmt.Sprintf(QryFindRunsByFolder, s.GetFQN()))
	q.Parameters = []bigquery.QueryParameter{{Name: "input_folder", Value: folder}}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}
	var runs []*model.CompositionRun
	for {
		run := &model.CompositionRun{}
		err := itr.Next(run)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// RunStats is the aggregate view of the run table served by the stats
// endpoint.
type RunStats struct {
	TotalRuns     int64   `bigquery:"total_runs" json:"total_runs"`
	TotalClips    int64   `bigquery:"total_clips" json:"total_clips"`
	TotalDuration float64 `bigquery:"total_duration_seconds" json:"total_duration_seconds"`
	Clamped       int64   `bigquery:"clamped_transitions" json:"clamped_transitions"`
	Degraded      int64   `bigquery:"degraded_transitions" json:"degraded_transitions"`
}

// Stats aggregates the run table into one summary row.
func (s *RunService) Stats(ctx context.Context) (*RunStats, error) {
	q := s.BigqueryClient.Query(fmt.Sprintf(QryRunStats, s.GetFQN()))
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}
	stats := &RunStats{}
	if err := itr.Next(stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// GenerateSignedURL creates a time-limited, secure URL for downloading a
// finished composition. The object is private; the URL is signed through
// the IAM Credentials API with the configured signer service account, so
// no local key material is needed.
//
// Inputs:
//   - ctx: The context for the request.
//   - gcsURI: The gs:// URI of the object, as recorded on the run.
//   - expires: The duration for which the URL will be valid.
func (s *RunService) GenerateSignedURL(ctx context.Context, gcsURI string, expires time.Duration) (string, error) {
	bucket, object, err := cloud.ParseGCSURI(gcsURI)
	if err != nil {
		return "", err
	}

	opts := &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         "GET",
		Expires:        time.Now().Add(expires),
		GoogleAccessID: s.SignerEmail,
		// SignBytes delegates the signature to the IAM Credentials API,
		// which works on GCP infrastructure without a downloaded service
		// account key.
		SignBytes: func(b []byte) ([]byte, error) {
			req := &credentialspb.SignBlobRequest{
				Name:    fmt.Sprintf("projects/-/serviceAccounts/%s", s.SignerEmail),
				Payload: b,
			}
			resp, err := s.IAMClient.SignBlob(ctx, req)
			if err != nil {
				return nil, fmt.Errorf("IAMClient.SignBlob: %w", err)
			}
			return resp.SignedBlob, nil
		},
	}

	u, err := s.StorageClient.Bucket(bucket).SignedURL(object, opts)
	if err != nil {
		return "", fmt.Errorf("Bucket(%q).Object(%q).SignedURL: %w", bucket, object, err)
	}
	return u, nil
}
