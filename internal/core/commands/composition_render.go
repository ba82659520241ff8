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

// This file defines the composition rendering command. It materializes the
// scheduled plan into a single video file: bridge segments still pointing
// at raw generation output in GCS are downloaded and post-processed
// (decimated and sped up) so their on-disk duration matches the duration
// the planner scheduled, and the whole timeline is then stitched with
// ffmpeg. The finished file is registered as a temp file so the chain
// context cleans it up after upload.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/CE-Demos/veo-clip-transitions/internal/cloud"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/cor"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/render"
)

// RenderedComposition carries the scheduled plan plus the path of the
// finished local file.
type RenderedComposition struct {
	*ScheduledComposition
	LocalPath string
}

// CompositionRender turns a scheduled composition into one local video file.
type CompositionRender struct {
	cor.BaseCommand
	client   *storage.Client
	executor *render.Executor
	veo      cloud.VeoModel
}

// NewCompositionRender is the constructor for the CompositionRender command.
// The Veo model config supplies the decimation and speed parameters applied
// to downloaded bridge clips.
func NewCompositionRender(name string, client *storage.Client, executor *render.Executor, veo cloud.VeoModel) *CompositionRender {
	return &CompositionRender{BaseCommand: *cor.NewBaseCommand(name), client: client, executor: executor, veo: veo}
}

// Execute localizes bridge segments and renders the plan.
func (c *CompositionRender) Execute(context cor.Context) {
	scheduled := context.Get(c.GetInputParam()).(*ScheduledComposition)
	ctx := context.GetContext()

	for i := range scheduled.Plan.Segments {
		segment := &scheduled.Plan.Segments[i]
		if !segment.Bridge || !strings.HasPrefix(segment.Clip.SourceHandle, "gs://") {
			continue
		}
		localPath, err := c.localizeBridge(context, segment.Clip.SourceHandle)
		if err != nil {
			c.GetErrorCounter().Add(ctx, 1)
			context.AddError(c.GetName(), err)
			return
		}
		segment.Clip.SourceHandle = localPath
	}

	output, err := os.CreateTemp("", "composition-*.mp4")
	if err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddError(c.GetName(), err)
		return
	}
	output.Close()
	context.AddTempFile(output.Name())

	if err := c.executor.Render(ctx, scheduled.Plan, output.Name()); err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddError(c.GetName(), fmt.Errorf("render run %s: %w", scheduled.Request.RunID, err))
		return
	}

	c.GetSuccessCounter().Add(ctx, 1)
	slog.Info("rendered composition", "run", scheduled.Request.RunID, "file", output.Name())
	context.Add(c.GetOutputParam(), &RenderedComposition{ScheduledComposition: scheduled, LocalPath: output.Name()})
}

// localizeBridge downloads one raw generated clip and applies the
// decimation and speed post-processing, returning the path of the processed
// local file. Both the raw download and the processed file are tracked for
// cleanup.
func (c *CompositionRender) localizeBridge(context cor.Context, uri string) (string, error) {
	ctx := context.GetContext()
	bucket, name, err := cloud.ParseGCSURI(uri)
	if err != nil {
		return "", err
	}

	reader, err := c.client.Bucket(bucket).Object(name).NewReader(ctx)
	if err != nil {
		return "", fmt.Errorf("open bridge clip %s: %w", uri, err)
	}
	defer reader.Close()

	raw, err := os.CreateTemp("", "bridge-raw-*.mp4")
	if err != nil {
		return "", err
	}
	context.AddTempFile(raw.Name())
	if _, err := io.Copy(raw, reader); err != nil {
		raw.Close()
		return "", fmt.Errorf("download bridge clip %s: %w", uri, err)
	}
	if err := raw.Close(); err != nil {
		return "", err
	}

	processed, err := os.CreateTemp("", "bridge-*.mp4")
	if err != nil {
		return "", err
	}
	processed.Close()
	context.AddTempFile(processed.Name())

	if err := c.executor.PostProcessBridge(ctx, raw.Name(), processed.Name(), c.veo.DecimationPasses, c.veo.SpeedFactor); err != nil {
		return "", fmt.Errorf("post-process bridge clip %s: %w", uri, err)
	}
	return processed.Name(), nil
}
