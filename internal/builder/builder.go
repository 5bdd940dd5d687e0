// Package builder turns a BuildSpec into exactly one image artifact. The
// build is strictly sequential and fail-fast; concurrent requests for the
// same inputs coalesce into a single driver invocation.
package builder

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/sinzlab/labctl/internal/config"
	"github.com/sinzlab/labctl/internal/schema"
	"golang.org/x/sync/singleflight"
)

// BuildResult is the immutable outcome of a successful build, shared by
// every service instantiated from it.
type BuildResult struct {
	// ImageRef is the image tag (docker driver) or handoff location
	// (local driver) the build produced.
	ImageRef    string
	Fingerprint string
	BuildID     string
}

// Driver executes one build end to end and returns the artifact reference.
type Driver interface {
	Build(ctx context.Context, spec schema.BuildSpec, bindings config.Bindings, buildID string) (string, error)
}

// Builder wraps a Driver with build-once semantics: repeated or concurrent
// builds of the same fingerprint return the cached result without invoking
// the driver again.
type Builder struct {
	driver Driver
	log    *log.Logger

	flight singleflight.Group
	mu     sync.Mutex
	built  map[string]BuildResult
}

func New(driver Driver, logger *log.Logger) *Builder {
	return &Builder{
		driver: driver,
		log:    logger,
		built:  make(map[string]BuildResult),
	}
}

// Build produces the image for spec, or returns the previously built result
// when the build inputs are unchanged.
func (b *Builder) Build(ctx context.Context, spec schema.BuildSpec, bindings config.Bindings) (BuildResult, error) {
	if err := checkCredentials(spec, bindings); err != nil {
		return BuildResult{}, err
	}

	fp := Fingerprint(spec, bindings)

	value, err, _ := b.flight.Do(fp, func() (interface{}, error) {
		b.mu.Lock()
		cached, ok := b.built[fp]
		b.mu.Unlock()
		if ok {
			b.log.Debug("reusing built image", "fingerprint", fp[:12], "image", cached.ImageRef)
			return cached, nil
		}

		buildID := uuid.NewString()
		b.log.Info("building image", "build", buildID, "base", spec.BaseImage, "installs", len(spec.Installs))

		ref, err := b.driver.Build(ctx, spec, bindings, buildID)
		if err != nil {
			return nil, err
		}

		result := BuildResult{ImageRef: ref, Fingerprint: fp, BuildID: buildID}
		b.mu.Lock()
		b.built[fp] = result
		b.mu.Unlock()
		return result, nil
	})
	if err != nil {
		return BuildResult{}, err
	}
	return value.(BuildResult), nil
}

// checkCredentials fails fast, before any build step runs, when a private
// clone would need the credential pair and it is not bound.
func checkCredentials(spec schema.BuildSpec, bindings config.Bindings) error {
	for _, inst := range spec.Installs {
		if inst.Kind != schema.InstallCheckout {
			continue
		}
		if (inst.Private || inst.Owner == schema.OwnerUser) && !bindings.HasCredentials() {
			return fmt.Errorf("install %q requires %s and %s to be set",
				inst.Name, config.EnvGithubUser, config.EnvGithubToken)
		}
	}
	return nil
}
