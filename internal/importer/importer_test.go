package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const composeFile = `
services:
  notebook_server:
    image: sinzlab/nnvision:latest
    build:
      context: .
    ports:
      - "8888:8888"
    volumes:
      - ./notebooks:/notebooks
      - /var/lib/nnvision-data:/data
    environment:
      JUPYTER_ENABLE_LAB: "yes"
  production_server:
    image: sinzlab/nnvision:latest
    entrypoint: ["/usr/local/bin/python3"]
    command: ["/src/nnvision/run.py"]
`

func TestImportCompose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docker-compose.yml")
	if err := os.WriteFile(path, []byte(composeFile), 0o600); err != nil {
		t.Fatal(err)
	}

	project, err := ImportCompose(context.Background(), path)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if len(project.Services) != 2 {
		t.Fatalf("expected 2 services, got %d", len(project.Services))
	}

	// Services come back sorted by name.
	if project.Services[0].Name != "notebook_server" || project.Services[1].Name != "production_server" {
		t.Errorf("unexpected service order: %s, %s", project.Services[0].Name, project.Services[1].Name)
	}

	notebook := project.Services[0]
	if len(notebook.Ports) != 1 || notebook.Ports[0].Host != 8888 || notebook.Ports[0].Container != 8888 {
		t.Errorf("notebook ports lost in conversion: %+v", notebook.Ports)
	}
	if len(notebook.Mounts) != 2 {
		t.Fatalf("expected 2 mounts, got %d", len(notebook.Mounts))
	}
	if notebook.Mounts[0].Target != "/notebooks" || notebook.Mounts[1].Target != "/data" {
		t.Errorf("container-side mount targets must survive conversion: %+v", notebook.Mounts)
	}
	if notebook.Env["JUPYTER_ENABLE_LAB"] != "yes" {
		t.Error("environment lost in conversion")
	}
	if !notebook.Interactive() {
		t.Error("notebook_server should convert as interactive")
	}

	production := project.Services[1]
	if production.Interactive() {
		t.Error("production_server should convert as batch")
	}
	if production.Entrypoint[0] != "/usr/local/bin/python3" || production.Command[0] != "/src/nnvision/run.py" {
		t.Errorf("override lost in conversion: %v %v", production.Entrypoint, production.Command)
	}

	if project.Build.ImageTag != "sinzlab/nnvision:latest" {
		t.Errorf("shared image tag should seed the build spec, got %q", project.Build.ImageTag)
	}
}

const skaffoldFile = `
apiVersion: skaffold/v2beta29
kind: Config
metadata:
  name: nnvision
build:
  artifacts:
    - image: sinzlab/nnvision
      context: .
`

func TestImportSkaffold(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skaffold.yaml")
	if err := os.WriteFile(path, []byte(skaffoldFile), 0o600); err != nil {
		t.Fatal(err)
	}

	project, err := ImportSkaffold(path)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if project.Name != "nnvision" {
		t.Errorf("unexpected project name %q", project.Name)
	}
	if len(project.Services) != 1 || project.Services[0].Name != "nnvision" {
		t.Errorf("expected one service named after the artifact, got %+v", project.Services)
	}
	if project.Build.ImageTag != "sinzlab/nnvision" {
		t.Errorf("artifact image should seed the build spec, got %q", project.Build.ImageTag)
	}
}

func TestImportSkaffoldWithoutArtifacts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skaffold.yaml")
	content := "apiVersion: skaffold/v2beta29\nkind: Config\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	project, err := ImportSkaffold(path)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(project.Services) != 1 {
		t.Fatalf("expected the single-service fallback, got %d services", len(project.Services))
	}
	if project.Services[0].Name != filepath.Base(dir) {
		t.Errorf("fallback service should be named after the directory, got %q", project.Services[0].Name)
	}
}
