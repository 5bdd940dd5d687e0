// Package topology instantiates services from the shared build result. Each
// service is an independent container process; there is no ordering,
// supervision, or retry between them.
package topology

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/sinzlab/labctl/internal/builder"
	"github.com/sinzlab/labctl/internal/runner"
	"github.com/sinzlab/labctl/internal/schema"
	"golang.org/x/sync/errgroup"
)

type Launcher struct {
	runner runner.Runner
	log    *log.Logger

	// Docker overrides the docker binary.
	Docker string
}

func NewLauncher(r runner.Runner, logger *log.Logger) *Launcher {
	return &Launcher{runner: r, log: logger}
}

func (l *Launcher) docker() string {
	if l.Docker != "" {
		return l.Docker
	}
	return "docker"
}

// RunArgs assembles the container invocation for one service: declared
// mounts and ports, the optional entrypoint/command override, nothing else.
func RunArgs(svc schema.Service, imageRef, containerName string) []string {
	args := []string{"run", "--rm", "--name", containerName}

	for _, mount := range svc.Mounts {
		args = append(args, "-v", mount.Host+":"+mount.Target)
	}
	for _, port := range svc.Ports {
		args = append(args, "-p", fmt.Sprintf("%d:%d", port.Host, port.Container))
	}

	keys := make([]string, 0, len(svc.Env))
	for key := range svc.Env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		args = append(args, "-e", key+"="+svc.Env[key])
	}

	if svc.GPU {
		args = append(args, "--gpus", "all")
	}

	if !svc.Interactive() {
		args = append(args, "--entrypoint", svc.Entrypoint[0])
	}

	args = append(args, imageRef)

	if !svc.Interactive() {
		args = append(args, svc.Entrypoint[1:]...)
		args = append(args, svc.Command...)
	}

	return args
}

// Run starts one service and blocks until it stops. Interactive services run
// until externally signalled; batch services run their fixed script to
// completion, and a non-zero script exit comes back as a *runner.ExitError.
func (l *Launcher) Run(ctx context.Context, svc schema.Service, build builder.BuildResult) error {
	name := containerName(svc)

	kind := "batch"
	if svc.Interactive() {
		kind = "interactive"
	}
	l.log.Info("starting service", "service", svc.Name, "kind", kind, "container", name, "image", build.ImageRef)

	if err := l.runner.Run(ctx, l.docker(), RunArgs(svc, build.ImageRef, name)...); err != nil {
		return fmt.Errorf("service %s: %w", svc.Name, err)
	}

	l.log.Info("service finished", "service", svc.Name)
	return nil
}

// Up starts several services concurrently against the same build result and
// waits for all of them. Services are independent: one failing must not tear
// down the others, so every service runs against the caller's context and no
// cancellation is derived from a sibling's failure.
func (l *Launcher) Up(ctx context.Context, services []schema.Service, build builder.BuildResult) error {
	var group errgroup.Group
	for _, svc := range services {
		group.Go(func() error {
			return l.Run(ctx, svc, build)
		})
	}
	return group.Wait()
}

// containerName keeps interactive containers at their stable service name
// and suffixes batch containers so repeated runs never collide.
func containerName(svc schema.Service) string {
	if svc.Interactive() {
		return svc.Name
	}
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return svc.Name + "-" + suffix
}
