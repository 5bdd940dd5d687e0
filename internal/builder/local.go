package builder

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/sinzlab/labctl/internal/config"
	"github.com/sinzlab/labctl/internal/runner"
	"github.com/sinzlab/labctl/internal/schema"
)

// LocalDriver provisions the environment without a container build, using
// the same two-phase shape: phase one runs with credential access and writes
// only plain working trees to the handoff directory; phase two installs from
// the handoff and never sees a credential.
type LocalDriver struct {
	runner runner.Runner
	log    *log.Logger

	// HandoffDir receives the checkouts. Required: the handoff is the
	// artifact the local driver produces.
	HandoffDir string

	// Python overrides the interpreter used for installs.
	Python string
}

func NewLocalDriver(r runner.Runner, logger *log.Logger, handoffDir string) *LocalDriver {
	return &LocalDriver{runner: r, log: logger, HandoffDir: handoffDir}
}

func (d *LocalDriver) python() string {
	if d.Python != "" {
		return d.Python
	}
	return "python3"
}

func (d *LocalDriver) Build(ctx context.Context, spec schema.BuildSpec, bindings config.Bindings, buildID string) (string, error) {
	if d.HandoffDir == "" {
		return "", fmt.Errorf("local driver requires a handoff directory")
	}

	// Phase one: credential-scoped clones into the handoff.
	c := &cloner{runner: d.runner}
	for _, inst := range spec.Checkouts() {
		dest := filepath.Join(d.HandoffDir, inst.Name)
		d.log.Debug("cloning", "build", buildID, "package", inst.Name)
		if err := c.clone(ctx, inst, bindings, dest); err != nil {
			return "", err
		}
	}

	// Phase two: ordered fail-fast installs. Only the handoff and pinned
	// archive URLs are consumed from here on; bindings are out of scope.
	for _, inst := range spec.Installs {
		if err := d.install(ctx, inst, buildID); err != nil {
			return "", err
		}
	}
	if spec.SourceDir != "" {
		if err := d.runner.Run(ctx, d.python(), "-m", "pip", "install", "--no-cache-dir", "-e", spec.SourceDir); err != nil {
			return "", fmt.Errorf("failed to install own source: %w", err)
		}
	}

	return d.HandoffDir, nil
}

func (d *LocalDriver) install(ctx context.Context, inst schema.PackageInstall, buildID string) error {
	args := []string{"-m", "pip", "install", "--no-cache-dir"}
	switch inst.Kind {
	case schema.InstallCheckout:
		args = append(args, "-e", filepath.Join(d.HandoffDir, inst.Name))
	case schema.InstallArchive:
		args = append(args, inst.URL)
	default:
		return fmt.Errorf("install %q: unknown kind %q", inst.Name, inst.Kind)
	}

	d.log.Debug("installing", "build", buildID, "package", inst.Name)
	if err := d.runner.Run(ctx, d.python(), args...); err != nil {
		return fmt.Errorf("failed to install %s: %w", inst.Name, err)
	}
	return nil
}
