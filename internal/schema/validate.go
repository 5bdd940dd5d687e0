package schema

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"
)

// Validate checks the whole project for structural problems. It returns the
// first error found; validation order is build spec, then services.
func (p *Project) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("project name is required")
	}

	if err := p.Build.Validate(); err != nil {
		return fmt.Errorf("build spec: %w", err)
	}

	if len(p.Services) == 0 {
		return fmt.Errorf("at least one service is required")
	}

	targets := make(map[string]bool)
	for _, target := range p.MountTargets {
		if !strings.HasPrefix(target, "/") {
			return fmt.Errorf("mount target %q must be absolute", target)
		}
		targets[target] = true
	}

	names := make(map[string]bool)
	for _, svc := range p.Services {
		if svc.Name == "" {
			return fmt.Errorf("service with empty name")
		}
		if names[svc.Name] {
			return fmt.Errorf("duplicate service name %q", svc.Name)
		}
		names[svc.Name] = true

		if err := svc.validate(targets); err != nil {
			return fmt.Errorf("service %q: %w", svc.Name, err)
		}
	}

	return nil
}

func (b BuildSpec) Validate() error {
	if _, err := reference.ParseNormalizedNamed(b.BaseImage); err != nil {
		return fmt.Errorf("invalid base image %q: %w", b.BaseImage, err)
	}
	if _, err := reference.ParseNormalizedNamed(b.ImageTag); err != nil {
		return fmt.Errorf("invalid image tag %q: %w", b.ImageTag, err)
	}
	if b.SourceTarget != "" && !strings.HasPrefix(b.SourceTarget, "/") {
		return fmt.Errorf("source target %q must be absolute", b.SourceTarget)
	}
	if len(b.Installs) == 0 {
		return fmt.Errorf("at least one package install is required")
	}

	names := make(map[string]bool)
	for i, inst := range b.Installs {
		if inst.Name == "" {
			return fmt.Errorf("install %d has no name", i)
		}
		if names[inst.Name] {
			return fmt.Errorf("duplicate install %q", inst.Name)
		}
		names[inst.Name] = true

		switch inst.Kind {
		case InstallCheckout:
			if inst.URL != "" {
				return fmt.Errorf("install %q: checkout installs take no archive URL", inst.Name)
			}
		case InstallArchive:
			if inst.URL == "" {
				return fmt.Errorf("install %q: archive installs require a pinned URL", inst.Name)
			}
			if inst.Branch != "" || inst.Owner != "" {
				return fmt.Errorf("install %q: archive installs are pinned by URL, not branch or owner", inst.Name)
			}
		default:
			return fmt.Errorf("install %q: unknown kind %q", inst.Name, inst.Kind)
		}
	}

	return nil
}

func (s Service) validate(targets map[string]bool) error {
	for _, mount := range s.Mounts {
		if mount.Host == "" {
			return fmt.Errorf("mount onto %q has no host path", mount.Target)
		}
		if !strings.HasPrefix(mount.Target, "/") {
			return fmt.Errorf("mount target %q must be absolute", mount.Target)
		}
		// Host-side paths differ per deployment host; the container side
		// must stay within the declared target set so the same code runs
		// unmodified everywhere.
		if len(targets) > 0 && !targets[mount.Target] {
			return fmt.Errorf("mount target %q is not a declared mount target", mount.Target)
		}
	}

	for _, port := range s.Ports {
		if port.Host < 1 || port.Host > 65535 {
			return fmt.Errorf("host port %d out of range", port.Host)
		}
		if port.Container < 1 || port.Container > 65535 {
			return fmt.Errorf("container port %d out of range", port.Container)
		}
	}

	if len(s.Entrypoint) == 0 && len(s.Command) > 0 {
		return fmt.Errorf("command override without entrypoint override")
	}

	return nil
}
