package templates

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	oerrors "github.com/dekorate/cli/internal/errors"
	"github.com/dekorate/cli/internal/output"
)

// DefaultPort is the container port written into scaffolds.
const DefaultPort = 8080

// TemplateData is the data scaffolds are rendered with.
type TemplateData struct {
	Name         string
	Group        string
	Version      string
	Port         int
	BuilderImage string
}

// GenerateOptions configures a scaffold run.
type GenerateOptions struct {
	TemplateName TemplateName
	TargetDir    string
	Data         TemplateData

	// Force overwrites existing files.
	Force bool
}

// GenerateResult lists the files written, relative to TargetDir.
type GenerateResult struct {
	Template TemplateName
	Files    []string
}

// Generate renders a scaffold into opts.TargetDir. Existing files are left
// alone and reported as a validation error unless Force is set; nothing is
// written in that case.
func Generate(opts GenerateOptions) (*GenerateResult, error) {
	files, err := ListTemplateFiles(opts.TemplateName)
	if err != nil {
		return nil, oerrors.NewValidationError(err.Error(), "", "template", "Valid templates: kubernetes, openshift, docker")
	}
	if opts.Data.Port == 0 {
		opts.Data.Port = DefaultPort
	}

	rendered := make(map[string][]byte, len(files))
	for _, file := range files {
		target := filepath.Join(opts.TargetDir, file)
		if !opts.Force {
			if _, err := os.Stat(target); err == nil {
				return nil, oerrors.NewValidationError("file already exists", target, "", "Pass --force to overwrite.")
			}
		}

		content, err := render(opts.TemplateName, file, opts.Data)
		if err != nil {
			return nil, err
		}
		rendered[file] = content
	}

	if err := os.MkdirAll(opts.TargetDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", opts.TargetDir, err)
	}
	for _, file := range files {
		target := filepath.Join(opts.TargetDir, file)
		if err := os.WriteFile(target, rendered[file], 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", target, err)
		}
		output.Debug("wrote scaffold file", "template", opts.TemplateName, "file", target)
	}

	return &GenerateResult{Template: opts.TemplateName, Files: files}, nil
}

func render(name TemplateName, file string, data TemplateData) ([]byte, error) {
	content, err := readTemplate(name, file)
	if err != nil {
		return nil, fmt.Errorf("reading template %s/%s: %w", name, file, err)
	}
	tmpl, err := template.New(file).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s/%s: %w", name, file, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s/%s: %w", name, file, err)
	}
	return buf.Bytes(), nil
}
