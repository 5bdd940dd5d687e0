package builder

import (
	"context"
	"fmt"

	"github.com/sinzlab/labctl/internal/config"
	"github.com/sinzlab/labctl/internal/runner"
	"github.com/sinzlab/labctl/internal/schema"
)

// cloner performs the credential-scoped clones of the local driver's first
// phase. Credentials live only in the process arguments of the clone
// command; they are never written to disk and never appear in errors.
type cloner struct {
	runner runner.Runner
}

func (c *cloner) clone(ctx context.Context, inst schema.PackageInstall, bindings config.Bindings, dest string) error {
	url, err := credentialURL(inst, bindings)
	if err != nil {
		return err
	}

	args := []string{"clone", "--depth", "1"}
	if inst.Branch != "" {
		args = append(args, "--branch", inst.Branch)
	}
	args = append(args, url, dest)

	if err := c.runner.Run(ctx, "git", args...); err != nil {
		// Name the package, not the URL: the URL may carry the token.
		return fmt.Errorf("failed to clone %s: %w", inst.Name, err)
	}
	return nil
}
