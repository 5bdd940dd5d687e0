package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/GoogleContainerTools/skaffold/pkg/skaffold/schema/latest"
	"github.com/sinzlab/labctl/internal/schema"
	"gopkg.in/yaml.v3"
)

// ImportSkaffold converts a skaffold.yaml into the project schema. Each build
// artifact becomes a service; the first artifact seeds the shared build spec.
func ImportSkaffold(path string) (*schema.Project, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var skaffoldConfig latest.SkaffoldConfig
	if err := yaml.Unmarshal(content, &skaffoldConfig); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	name := skaffoldConfig.Metadata.Name
	if name == "" {
		name = filepath.Base(filepath.Dir(path))
	}
	project := schema.NewProject(name)

	if len(skaffoldConfig.Build.Artifacts) == 0 {
		// Config without build artifacts still implies one deployable
		// service rooted at the config's directory.
		project.AddService(schema.NewService(name))
		return project, nil
	}

	for _, artifact := range skaffoldConfig.Build.Artifacts {
		svc := schema.NewService(deriveServiceName(artifact.ImageName, path))
		project.AddService(svc)

		if project.Build.ImageTag == "" {
			project.Build.ImageTag = artifact.ImageName
			project.Build.SourceDir = artifact.Workspace
		}
	}

	return project, nil
}

func deriveServiceName(imageName, configPath string) string {
	if imageName != "" {
		parts := strings.Split(imageName, "/")
		return parts[len(parts)-1]
	}
	return filepath.Base(filepath.Dir(configPath))
}
