package builder

import (
	"testing"

	"github.com/sinzlab/labctl/internal/config"
	"github.com/sinzlab/labctl/internal/schema"
)

func TestFingerprint(t *testing.T) {
	spec := schema.DefaultProject().Build
	base := Fingerprint(spec, testBindings)

	t.Run("stable across calls", func(t *testing.T) {
		if Fingerprint(spec, testBindings) != base {
			t.Error("fingerprint is not deterministic")
		}
	})

	t.Run("token does not participate", func(t *testing.T) {
		rotated := config.Bindings{User: "alice", Token: "other-token", Source: "sinzlab"}
		if Fingerprint(spec, rotated) != base {
			t.Error("rotating the token must not invalidate the build")
		}
	})

	t.Run("user changes the build", func(t *testing.T) {
		// A different user means a different nndichromacy fork.
		forked := config.Bindings{User: "bob", Token: "tok123", Source: "sinzlab"}
		if Fingerprint(spec, forked) == base {
			t.Error("changing the user should change the fingerprint")
		}
	})

	t.Run("base image changes the build", func(t *testing.T) {
		changed := spec
		changed.BaseImage = "sinzlab/pytorch:v999"
		if Fingerprint(changed, testBindings) == base {
			t.Error("changing the base image should change the fingerprint")
		}
	})

	t.Run("install order changes the build", func(t *testing.T) {
		reordered := spec
		reordered.Installs = append([]schema.PackageInstall(nil), spec.Installs...)
		reordered.Installs[0], reordered.Installs[1] = reordered.Installs[1], reordered.Installs[0]
		if Fingerprint(reordered, testBindings) == base {
			t.Error("later installs may override earlier pins; order must be part of the identity")
		}
	})
}
