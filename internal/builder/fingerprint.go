package builder

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/sinzlab/labctl/internal/config"
	"github.com/sinzlab/labctl/internal/schema"
)

// fingerprintInput is the canonical set of build inputs. Service mounts and
// ports are deliberately absent: topology changes must never invalidate the
// shared image. The token is absent too; it authenticates clones but does
// not select what gets built.
type fingerprintInput struct {
	BaseImage    string                  `json:"baseImage"`
	ImageTag     string                  `json:"imageTag"`
	SourceTarget string                  `json:"sourceTarget"`
	Installs     []schema.PackageInstall `json:"installs"`
	User         string                  `json:"user"`
	Source       string                  `json:"source"`
}

// Fingerprint derives a stable identity for a build from its inputs. Equal
// fingerprints mean the builder can reuse a previous result.
func Fingerprint(spec schema.BuildSpec, bindings config.Bindings) string {
	input := fingerprintInput{
		BaseImage:    spec.BaseImage,
		ImageTag:     spec.ImageTag,
		SourceTarget: spec.SourceTarget,
		Installs:     spec.Installs,
		User:         bindings.User,
		Source:       bindings.Source,
	}

	// Marshal cannot fail on this shape.
	encoded, _ := json.Marshal(input)
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}
