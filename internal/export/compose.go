package export

import (
	"fmt"

	composeTypes "github.com/compose-spec/compose-go/v2/types"
	"github.com/sinzlab/labctl/internal/schema"
	"gopkg.in/yaml.v3"
)

// Compose renders the topology as a docker-compose project. Every service
// carries the same image tag and the same build block, so compose builds
// once and reuses the image across variants.
func Compose(project *schema.Project) ([]byte, error) {
	services := make(composeTypes.Services, len(project.Services))

	// Credentials stay as build-arg passthrough (nil value = take from
	// the invoking environment); their values never land in the file.
	buildArgs := composeTypes.MappingWithEquals{
		"GITHUB_USER":  nil,
		"GITHUB_TOKEN": nil,
	}

	for _, svc := range project.Services {
		composeService := composeTypes.ServiceConfig{
			Image: project.Build.ImageTag,
			Build: &composeTypes.BuildConfig{
				Context:    project.Build.SourceDir,
				Dockerfile: "Dockerfile.labctl",
				Args:       buildArgs,
			},
		}

		for _, mount := range svc.Mounts {
			composeService.Volumes = append(composeService.Volumes, composeTypes.ServiceVolumeConfig{
				Type:   "bind",
				Source: mount.Host,
				Target: mount.Target,
			})
		}
		for _, port := range svc.Ports {
			composeService.Ports = append(composeService.Ports, composeTypes.ServicePortConfig{
				Published: fmt.Sprintf("%d", port.Host),
				Target:    uint32(port.Container),
			})
		}
		if len(svc.Entrypoint) > 0 {
			composeService.Entrypoint = composeTypes.ShellCommand(svc.Entrypoint)
			composeService.Command = composeTypes.ShellCommand(svc.Command)
		}
		if len(svc.Env) > 0 {
			env := make(composeTypes.MappingWithEquals, len(svc.Env))
			for key, value := range svc.Env {
				v := value
				env[key] = &v
			}
			composeService.Environment = env
		}

		services[svc.Name] = composeService
	}

	return yaml.Marshal(composeTypes.Project{
		Name:     project.Name,
		Services: services,
	})
}
