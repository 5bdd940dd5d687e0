package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/sinzlab/labctl/internal/runner"
)

// VerifyImage inspects the exported image's layer history for the literal
// token. A hit means the credential leaked out of the discarded stage, which
// the two-stage build exists to prevent.
func VerifyImage(ctx context.Context, r runner.Runner, docker, imageRef, token string) error {
	if token == "" {
		return nil
	}
	if docker == "" {
		docker = "docker"
	}

	out, err := r.Output(ctx, docker, "history", "--no-trunc", "--format", "{{.CreatedBy}}", imageRef)
	if err != nil {
		return fmt.Errorf("failed to read image history for %s: %w", imageRef, err)
	}

	if strings.Contains(string(out), token) {
		return fmt.Errorf("credential found in image history of %s", imageRef)
	}
	return nil
}
