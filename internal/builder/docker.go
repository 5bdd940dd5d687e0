package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/sinzlab/labctl/internal/config"
	"github.com/sinzlab/labctl/internal/runner"
	"github.com/sinzlab/labctl/internal/schema"
)

// DockerDriver builds the image with the docker CLI. The credential pair
// travels as build args consumed only by the discarded clone stage; the
// rendered Dockerfile is stage-checked before every build.
type DockerDriver struct {
	runner runner.Runner
	log    *log.Logger

	// Docker overrides the docker binary, mostly for podman setups.
	Docker string
}

func NewDockerDriver(r runner.Runner, logger *log.Logger) *DockerDriver {
	return &DockerDriver{runner: r, log: logger}
}

func (d *DockerDriver) docker() string {
	if d.Docker != "" {
		return d.Docker
	}
	return "docker"
}

func (d *DockerDriver) Build(ctx context.Context, spec schema.BuildSpec, bindings config.Bindings, buildID string) (string, error) {
	dockerfile, err := RenderDockerfile(spec, bindings)
	if err != nil {
		return "", err
	}
	if err := CheckStages(dockerfile); err != nil {
		return "", fmt.Errorf("credential isolation check failed: %w", err)
	}

	dir, err := os.MkdirTemp("", "labctl-build-*")
	if err != nil {
		return "", fmt.Errorf("failed to create build directory: %w", err)
	}
	defer os.RemoveAll(dir)

	dockerfilePath := filepath.Join(dir, "Dockerfile")
	if err := os.WriteFile(dockerfilePath, []byte(dockerfile), 0o600); err != nil {
		return "", fmt.Errorf("failed to write Dockerfile: %w", err)
	}

	contextDir := spec.SourceDir
	if contextDir == "" {
		contextDir = "."
	}

	args := []string{
		"build",
		"-f", dockerfilePath,
		"-t", spec.ImageTag,
		"--build-arg", config.EnvGithubUser + "=" + bindings.User,
		"--build-arg", config.EnvGithubToken + "=" + bindings.Token,
		contextDir,
	}

	d.log.Debug("running docker build", "build", buildID, "tag", spec.ImageTag)
	if err := d.runner.Run(ctx, d.docker(), args...); err != nil {
		return "", fmt.Errorf("image build failed: %w", err)
	}

	return spec.ImageTag, nil
}
