package builder

import (
	"fmt"
	"strings"

	"github.com/moby/buildkit/frontend/dockerfile/parser"
	"github.com/sinzlab/labctl/internal/config"
)

// Variable names whose values are build-time secrets. They may be consumed
// only by stages that are discarded from the exported image.
var credentialNames = []string{config.EnvGithubUser, config.EnvGithubToken}

// CheckStages parses a Dockerfile and rejects it when the exported (final)
// stage could carry the credential pair: a credential ARG declared there, a
// reference to a credential variable, or a copy of the credential store.
// Every Dockerfile goes through this before a build runs, including rendered
// ones.
func CheckStages(dockerfile string) error {
	result, err := parser.Parse(strings.NewReader(dockerfile))
	if err != nil {
		return fmt.Errorf("failed to parse Dockerfile: %w", err)
	}

	// Instructions before the first FROM (global ARGs) are ambient to
	// every stage, so they are checked together with the final stage.
	var preamble, final []*parser.Node
	sawStage := false
	for _, node := range result.AST.Children {
		if strings.EqualFold(node.Value, "from") {
			sawStage = true
			final = nil
			continue
		}
		if !sawStage {
			preamble = append(preamble, node)
			continue
		}
		final = append(final, node)
	}

	if !sawStage {
		return fmt.Errorf("Dockerfile has no stages")
	}

	for _, node := range append(preamble, final...) {
		line := node.Original
		for _, name := range credentialNames {
			if strings.Contains(line, name) {
				return fmt.Errorf("line %d: final stage references credential %s", node.StartLine, name)
			}
		}
		if strings.Contains(line, credentialStorePath) {
			return fmt.Errorf("line %d: final stage touches the credential store %s", node.StartLine, credentialStorePath)
		}
	}

	return nil
}
