// Package config loads the project file and resolves the invocation's
// environment bindings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sinzlab/labctl/internal/schema"
	"gopkg.in/yaml.v3"
)

// Default project file names, tried in order when no explicit path is given.
var projectFiles = []string{
	"labctl.yaml",
	"labctl.yml",
	"labctl.toml",
}

// LoadProject reads a project file (YAML or TOML, by extension) and
// validates it. An empty path falls back to the stock lab project after
// probing the working directory for a project file.
func LoadProject(path string) (*schema.Project, error) {
	if path == "" {
		for _, name := range projectFiles {
			if _, err := os.Stat(name); err == nil {
				path = name
				break
			}
		}
	}
	if path == "" {
		project := schema.DefaultProject()
		if err := project.Validate(); err != nil {
			return nil, fmt.Errorf("default project is invalid: %w", err)
		}
		return project, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	var project schema.Project
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &project); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(content, &project); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported project file format: %s", path)
	}

	applyDefaults(&project)

	if err := project.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project %s: %w", path, err)
	}
	return &project, nil
}

func applyDefaults(project *schema.Project) {
	if project.Build.SourceDir == "" {
		project.Build.SourceDir = "."
	}
	for i, inst := range project.Build.Installs {
		if inst.Kind == "" {
			project.Build.Installs[i].Kind = schema.InstallCheckout
		}
	}
}
