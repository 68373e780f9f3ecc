package buildservice

import (
	"context"
	"fmt"

	"github.com/dekorate/cli/internal/output"
	"github.com/dekorate/cli/internal/project"
)

// ImageBuildHook runs a build service once the session has written its
// manifests. It satisfies session.Hook.
type ImageBuildHook struct {
	Project *project.Project
	Service BuildService
	Image   ImageConfiguration
	// Factory is the selected factory name, for logs.
	Factory string
}

// NewImageBuildHook returns a hook building cfg with svc.
func NewImageBuildHook(p *project.Project, factory string, svc BuildService, cfg ImageConfiguration) *ImageBuildHook {
	return &ImageBuildHook{Project: p, Service: svc, Image: cfg, Factory: factory}
}

// Name returns "image-build:<image>".
func (h *ImageBuildHook) Name() string {
	return "image-build:" + h.Image.Image()
}

// Run builds the image, showing a spinner on a terminal.
func (h *ImageBuildHook) Run(ctx context.Context) error {
	output.Info("building image", "image", h.Image.Image(), "service", h.Factory)

	err := output.RunWithSpinner(ctx, h.Service.Build, output.WithTitle(fmt.Sprintf("Building %s with %s", h.Image.Image(), h.Factory)))
	if err != nil {
		return fmt.Errorf("building image %s: %w", h.Image.Image(), err)
	}

	output.Println(output.FormatCheckmark("Image " + output.StyleNoun.Render(h.Image.Image()) + " built"))
	return nil
}
