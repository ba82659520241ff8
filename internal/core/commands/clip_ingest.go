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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface for the composition
// workflow. This file defines the clip ingest command: it turns the
// request's input folder into a list of probed, locally cached clip
// descriptors.
//
// Logic Flow:
//  1. List the GCS objects under the request's input folder.
//  2. Keep only objects with a known video extension, then sort the
//     survivors alphabetically so the stitching order is stable across runs.
//  3. Download each object to a temp file and sniff the content with the
//     filetype library; a video extension on non-video bytes is skipped
//     with a warning rather than failing the run.
//  4. Probe each survivor for duration and frame size, producing the
//     ordered clip descriptors the rest of the pipeline works from.
//
// An empty result is an input error: there is nothing to compose.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"cloud.google.com/go/storage"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"google.golang.org/api/iterator"

	"github.com/CE-Demos/veo-clip-transitions/internal/cloud"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/cor"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/render"
)

// ClipSet is the ingest output: the request plus its ordered, probed clips.
type ClipSet struct {
	Request *model.ComposeRequest
	Clips   []model.ClipDescriptor
}

// ClipIngest lists, filters, downloads, and probes the request's source
// clips.
type ClipIngest struct {
	cor.BaseCommand
	client   *storage.Client
	executor *render.Executor
}

// NewClipIngest is the constructor for the ClipIngest command.
func NewClipIngest(name string, client *storage.Client, executor *render.Executor) *ClipIngest {
	return &ClipIngest{BaseCommand: *cor.NewBaseCommand(name), client: client, executor: executor}
}

// Execute resolves the input folder to clip descriptors.
func (c *ClipIngest) Execute(context cor.Context) {
	request := context.Get(c.GetInputParam()).(*model.ComposeRequest)
	ctx := context.GetContext()

	bucket, prefix, err := cloud.ParseGCSURI(request.InputFolder)
	if err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddError(c.GetName(), err)
		return
	}

	// List the folder and keep only video objects, sorted by name.
	var names []string
	it := c.client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			c.GetErrorCounter().Add(ctx, 1)
			context.AddError(c.GetName(), fmt.Errorf("listing %s: %w", request.InputFolder, err))
			return
		}
		if attrs.Name == prefix || !cloud.IsVideoObject(attrs.Name) {
			continue
		}
		names = append(names, attrs.Name)
	}
	sort.Strings(names)

	clips := make([]model.ClipDescriptor, 0, len(names))
	for _, name := range names {
		path, err := c.download(context, bucket, name)
		if err != nil {
			c.GetErrorCounter().Add(ctx, 1)
			context.AddError(c.GetName(), err)
			return
		}
		// The extension filter runs on names; sniff the bytes too so a
		// mislabeled object does not reach ffmpeg.
		if !c.isVideoContent(path) {
			slog.Warn("skipping non-video object", "object", name)
			continue
		}
		clip, err := c.executor.DescribeClip(ctx, len(clips), path)
		if err != nil {
			c.GetErrorCounter().Add(ctx, 1)
			context.AddError(c.GetName(), fmt.Errorf("probing gs://%s/%s: %w", bucket, name, err))
			return
		}
		clips = append(clips, clip)
	}

	if len(clips) == 0 {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddError(c.GetName(), fmt.Errorf("%w: no video clips under %s", model.ErrInvalidInput, request.InputFolder))
		return
	}

	c.GetSuccessCounter().Add(ctx, 1)
	slog.Info("ingested clips", "run", request.RunID, "count", len(clips))
	context.Add(c.GetOutputParam(), &ClipSet{Request: request, Clips: clips})
}

// download streams one object to a tracked temp file and returns its path.
func (c *ClipIngest) download(context cor.Context, bucket, name string) (string, error) {
	reader, err := c.client.Bucket(bucket).Object(name).NewReader(context.GetContext())
	if err != nil {
		return "", fmt.Errorf("failed to create GCS reader for gs://%s/%s: %w", bucket, name, err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			slog.Warn("failed to close GCS reader", "error", err)
		}
	}()

	tempFile, err := os.CreateTemp("", "clip-ingest-*.mp4")
	if err != nil {
		return "", fmt.Errorf("could not create temp file: %w", err)
	}
	if _, err := io.Copy(tempFile, reader); err != nil {
		_ = tempFile.Close()
		return "", fmt.Errorf("downloading gs://%s/%s: %w", bucket, name, err)
	}
	_ = tempFile.Close()
	context.AddTempFile(tempFile.Name())
	return tempFile.Name(), nil
}

// isVideoContent sniffs the file header for a video container signature.
func (c *ClipIngest) isVideoContent(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	head := make([]byte, 261)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return false
	}
	kind, err := filetype.Match(head[:n])
	if err != nil {
		return false
	}
	return kind.MIME.Type == "video" || kind == matchers.TypeMp4
}
