// Package importer converts existing deployment configs (docker-compose,
// skaffold) into the labctl project schema. Imports cover the service
// topology; the build section usually needs completing by hand since neither
// format carries the install list.
package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/compose-spec/compose-go/v2/loader"
	composeTypes "github.com/compose-spec/compose-go/v2/types"
	"github.com/sinzlab/labctl/internal/schema"
)

// ImportCompose loads a docker-compose file and converts its services.
func ImportCompose(ctx context.Context, path string) (*schema.Project, error) {
	configDetails := composeTypes.ConfigDetails{
		WorkingDir: filepath.Dir(path),
		ConfigFiles: []composeTypes.ConfigFile{
			{Filename: path},
		},
	}

	composeProject, err := loader.LoadWithContext(ctx, configDetails, func(options *loader.Options) {
		options.SetProjectName(filepath.Base(filepath.Dir(path)), true)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load compose project: %w", err)
	}

	project := schema.NewProject(composeProject.Name)

	names := make([]string, 0, len(composeProject.Services))
	for name := range composeProject.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		composeService := composeProject.Services[name]
		project.AddService(convertComposeService(name, composeService))

		// The first image/build reference seeds the shared build spec.
		if project.Build.ImageTag == "" && composeService.Image != "" {
			project.Build.ImageTag = composeService.Image
		}
		if project.Build.SourceDir == "" && composeService.Build != nil {
			project.Build.SourceDir = composeService.Build.Context
		}
	}

	return project, nil
}

func convertComposeService(name string, composeService composeTypes.ServiceConfig) schema.Service {
	svc := schema.NewService(name)

	for _, volume := range composeService.Volumes {
		if volume.Source == "" || volume.Target == "" {
			continue
		}
		svc.Mounts = append(svc.Mounts, schema.Mount{Host: volume.Source, Target: volume.Target})
	}

	for _, port := range composeService.Ports {
		if port.Published == "" {
			continue
		}
		published, err := strconv.Atoi(port.Published)
		if err != nil {
			continue // skip port ranges and malformed entries
		}
		svc.Ports = append(svc.Ports, schema.Port{Host: published, Container: int(port.Target)})
	}

	for key, value := range composeService.Environment {
		if value == nil {
			continue
		}
		svc.Env[key] = *value
	}

	svc.Entrypoint = []string(composeService.Entrypoint)
	svc.Command = []string(composeService.Command)

	return svc
}
