package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sinzlab/labctl/internal/schema"
)

const yamlProject = `
name: minimal
build:
  baseImage: alpine:3.20
  imageTag: lab/minimal:latest
  sourceTarget: /src/minimal
  installs:
    - name: lib
      kind: checkout
      branch: main
    - name: pinned
      kind: archive
      url: https://example.com/pinned.tar.gz
services:
  - name: notebook
    mounts:
      - host: .
        target: /src/minimal
    ports:
      - host: 8888
        container: 8888
`

const tomlProject = `
name = "minimal"

[build]
baseImage = "alpine:3.20"
imageTag = "lab/minimal:latest"
sourceTarget = "/src/minimal"

[[build.installs]]
name = "lib"
kind = "checkout"

[[services]]
name = "notebook"

[[services.ports]]
host = 8888
container = 8888
`

func writeProject(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadProjectYAML(t *testing.T) {
	project, err := LoadProject(writeProject(t, "labctl.yaml", yamlProject))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if project.Name != "minimal" {
		t.Errorf("unexpected name %q", project.Name)
	}
	if len(project.Build.Installs) != 2 {
		t.Fatalf("expected 2 installs, got %d", len(project.Build.Installs))
	}
	if project.Build.Installs[1].Kind != schema.InstallArchive {
		t.Error("archive install kind lost in parsing")
	}
	if project.Build.SourceDir != "." {
		t.Error("source dir should default to the working directory")
	}

	svc, ok := project.Service("notebook")
	if !ok {
		t.Fatal("notebook service missing")
	}
	if len(svc.Ports) != 1 || svc.Ports[0].Host != 8888 {
		t.Error("notebook service should expose 8888")
	}
}

func TestLoadProjectTOML(t *testing.T) {
	project, err := LoadProject(writeProject(t, "labctl.toml", tomlProject))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if project.Name != "minimal" {
		t.Errorf("unexpected name %q", project.Name)
	}
	if project.Build.Installs[0].Kind != schema.InstallCheckout {
		t.Error("install kind should parse from TOML")
	}
}

func TestLoadProjectErrors(t *testing.T) {
	t.Run("unknown extension", func(t *testing.T) {
		if _, err := LoadProject(writeProject(t, "labctl.ini", "x")); err == nil {
			t.Fatal("expected format error")
		}
	})

	t.Run("invalid schema", func(t *testing.T) {
		broken := strings.Replace(yamlProject, "alpine:3.20", "NOT A REF", 1)
		_, err := LoadProject(writeProject(t, "labctl.yaml", broken))
		if err == nil {
			t.Fatal("expected validation error")
		}
		if !strings.Contains(err.Error(), "invalid base image") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadProject(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Fatal("expected read error")
		}
	})
}

func TestLoadProjectDefault(t *testing.T) {
	// No project file anywhere: the built-in lab project applies.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	project, err := LoadProject("")
	if err != nil {
		t.Fatalf("default project failed to load: %v", err)
	}
	if project.Name != "nnvision" {
		t.Errorf("expected the stock lab project, got %q", project.Name)
	}
	if len(project.Services) != 5 {
		t.Errorf("expected 5 services, got %d", len(project.Services))
	}
}

func TestLoadProjectProbesWorkingDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "labctl.yaml"), []byte(yamlProject), 0o600); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	project, err := LoadProject("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if project.Name != "minimal" {
		t.Error("a labctl.yaml in the working directory should win over the built-in project")
	}
}
