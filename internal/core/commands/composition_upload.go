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

// This file defines the command that publishes a finished composition. It
// streams the rendered local file into the output bucket under the
// configured prefix and the request's output name. The local file itself
// is a tracked temp file, so cleanup happens when the chain context
// closes.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"

	"cloud.google.com/go/storage"

	"github.com/CE-Demos/veo-clip-transitions/internal/cloud"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/cor"
)

// UploadedComposition carries the rendered composition plus the GCS URI it
// was published to.
type UploadedComposition struct {
	*RenderedComposition
	OutputURI string
}

// CompositionUpload streams the rendered file to the output bucket.
type CompositionUpload struct {
	cor.BaseCommand
	client  *storage.Client
	storage cloud.Storage
}

// NewCompositionUpload is the constructor for the CompositionUpload command.
func NewCompositionUpload(name string, client *storage.Client, storage cloud.Storage) *CompositionUpload {
	return &CompositionUpload{BaseCommand: *cor.NewBaseCommand(name), client: client, storage: storage}
}

// Execute uploads the rendered file and reports the resulting object URI.
func (c *CompositionUpload) Execute(context cor.Context) {
	rendered := context.Get(c.GetInputParam()).(*RenderedComposition)
	ctx := context.GetContext()

	dat, err := os.Open(rendered.LocalPath)
	if err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to open rendered file %s: %w", rendered.LocalPath, err))
		return
	}
	defer dat.Close()

	object := cloud.GCSObject{
		Bucket:   c.storage.OutputBucket,
		Name:     path.Join(c.storage.OutputPrefix, rendered.Request.OutputName),
		MIMEType: "video/mp4",
	}

	writer := c.client.Bucket(object.Bucket).Object(object.Name).NewWriter(ctx)
	writer.ContentType = object.MIMEType
	if _, err := io.Copy(writer, dat); err != nil {
		writer.Close()
		c.GetErrorCounter().Add(ctx, 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to upload composition to %s: %w", object.URI(), err))
		return
	}
	// Close finalizes the upload; errors here mean the object was not
	// committed.
	if err := writer.Close(); err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to finalize upload to %s: %w", object.URI(), err))
		return
	}

	c.GetSuccessCounter().Add(ctx, 1)
	slog.Info("uploaded composition", "run", rendered.Request.RunID, "uri", object.URI())
	context.Add(c.GetOutputParam(), &UploadedComposition{RenderedComposition: rendered, OutputURI: object.URI()})
}
