package builder

import (
	"fmt"
	"strings"

	"github.com/sinzlab/labctl/internal/config"
	"github.com/sinzlab/labctl/internal/schema"
)

// Name of the intermediate stage that holds the credential store. Nothing
// from it other than the checkouts may reach the final stage.
const cloneStage = "clones"

// Where the credential store lives inside the clone stage.
const credentialStorePath = "/root/.netrc"

const checkoutRoot = "/src"

// RenderDockerfile produces the two-stage build for a BuildSpec. The first
// stage receives the credential pair as build args and performs every clone;
// the final stage copies only the resulting checkouts and runs the ordered
// install list. The token value itself never appears in the output.
func RenderDockerfile(spec schema.BuildSpec, bindings config.Bindings) (string, error) {
	var sb strings.Builder

	sb.WriteString("# Generated by labctl. Do not edit.\n")

	// Stage one: credential-scoped clones, discarded from the final image.
	fmt.Fprintf(&sb, "FROM %s AS %s\n", spec.BaseImage, cloneStage)
	fmt.Fprintf(&sb, "ARG %s\n", config.EnvGithubUser)
	fmt.Fprintf(&sb, "ARG %s\n", config.EnvGithubToken)
	fmt.Fprintf(&sb, "RUN printf 'machine github.com\\n  login %%s\\n  password %%s\\n' \"$%s\" \"$%s\" > %s\n",
		config.EnvGithubUser, config.EnvGithubToken, credentialStorePath)
	fmt.Fprintf(&sb, "WORKDIR %s\n", checkoutRoot)

	for _, inst := range spec.Checkouts() {
		url, err := repoURL(inst, bindings)
		if err != nil {
			return "", err
		}
		clone := []string{"git", "clone", "--depth", "1"}
		if inst.Branch != "" {
			clone = append(clone, "--branch", inst.Branch)
		}
		clone = append(clone, url, checkoutPath(inst))
		fmt.Fprintf(&sb, "RUN %s\n", strings.Join(clone, " "))
	}

	// Final stage: checkouts only, no credential store, ordered fail-fast
	// installs. Each install is its own layer so a broken step aborts the
	// build with no image produced.
	fmt.Fprintf(&sb, "\nFROM %s\n", spec.BaseImage)
	fmt.Fprintf(&sb, "COPY --from=%s %s %s\n", cloneStage, checkoutRoot, checkoutRoot)
	if spec.SourceTarget != "" {
		fmt.Fprintf(&sb, "ADD . %s\n", spec.SourceTarget)
	}

	for _, inst := range spec.Installs {
		switch inst.Kind {
		case schema.InstallCheckout:
			fmt.Fprintf(&sb, "RUN python3 -m pip install --no-cache-dir -e %s\n", checkoutPath(inst))
		case schema.InstallArchive:
			fmt.Fprintf(&sb, "RUN python3 -m pip install --no-cache-dir %s\n", inst.URL)
		default:
			return "", fmt.Errorf("install %q: unknown kind %q", inst.Name, inst.Kind)
		}
	}
	if spec.SourceTarget != "" {
		fmt.Fprintf(&sb, "RUN python3 -m pip install --no-cache-dir -e %s\n", spec.SourceTarget)
	}

	sb.WriteString("WORKDIR /notebooks\n")

	return sb.String(), nil
}

func checkoutPath(inst schema.PackageInstall) string {
	return checkoutRoot + "/" + inst.Name
}

// repoURL resolves the clone URL for a checkout. Authentication happens via
// the stage-one credential store, never in the URL.
func repoURL(inst schema.PackageInstall, bindings config.Bindings) (string, error) {
	owner, err := resolveOwner(inst, bindings)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://github.com/%s/%s.git", owner, inst.Name), nil
}

// credentialURL embeds the credential pair for clones made outside a
// container build. Callers must never persist or log the result.
func credentialURL(inst schema.PackageInstall, bindings config.Bindings) (string, error) {
	owner, err := resolveOwner(inst, bindings)
	if err != nil {
		return "", err
	}
	if inst.Private {
		return fmt.Sprintf("https://%s:%s@github.com/%s/%s.git", bindings.User, bindings.Token, owner, inst.Name), nil
	}
	return fmt.Sprintf("https://github.com/%s/%s.git", owner, inst.Name), nil
}

func resolveOwner(inst schema.PackageInstall, bindings config.Bindings) (string, error) {
	if inst.Owner == schema.OwnerUser {
		if bindings.User == "" {
			return "", fmt.Errorf("install %q resolves against the user account but %s is unset",
				inst.Name, config.EnvGithubUser)
		}
		return bindings.User, nil
	}
	if inst.Owner != "" {
		return inst.Owner, nil
	}
	return bindings.Source, nil
}
