package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Canonical binding names. These are the only environment variables the
// build consumes.
const (
	EnvGithubUser  = "GITHUB_USER"
	EnvGithubToken = "GITHUB_TOKEN"
	EnvDevSource   = "DEV_SOURCE"
)

// DefaultSource is the organization packages resolve against when
// DEV_SOURCE is unset.
const DefaultSource = "sinzlab"

// Bindings holds the resolved build-time environment. It is constructed once
// per invocation and never mutated afterwards; nothing else in the codebase
// reads the process environment.
type Bindings struct {
	User   string
	Token  string
	Source string
}

// ResolveBindings builds the invocation's Bindings from the process
// environment, overlaid on a .env file in dir when one exists. Process
// environment wins over the file.
func ResolveBindings(dir string) (Bindings, error) {
	values := make(map[string]string)

	dotenvPath := filepath.Join(dir, ".env")
	if content, err := os.ReadFile(dotenvPath); err == nil {
		parsed, err := godotenv.Unmarshal(string(content))
		if err != nil {
			return Bindings{}, fmt.Errorf("failed to parse %s: %w", dotenvPath, err)
		}
		for key, value := range parsed {
			values[key] = value
		}
	}

	for _, key := range []string{EnvGithubUser, EnvGithubToken, EnvDevSource} {
		if value, ok := os.LookupEnv(key); ok {
			values[key] = value
		}
	}

	b := Bindings{
		User:   values[EnvGithubUser],
		Token:  values[EnvGithubToken],
		Source: values[EnvDevSource],
	}
	if b.Source == "" {
		b.Source = DefaultSource
	}
	return b, nil
}

// HasCredentials reports whether both halves of the credential pair are set.
func (b Bindings) HasCredentials() bool {
	return b.User != "" && b.Token != ""
}

// Masked returns the bindings as display pairs with the secret half of the
// credential pair redacted.
func (b Bindings) Masked() map[string]string {
	return map[string]string{
		EnvGithubUser:  b.User,
		EnvGithubToken: MaskValue(EnvGithubToken, b.Token),
		EnvDevSource:   b.Source,
	}
}

// MaskValue redacts values whose variable name looks sensitive. Empty values
// pass through so missing bindings stay visible.
func MaskValue(name, value string) string {
	if value == "" {
		return ""
	}
	lower := strings.ToLower(name)
	for _, pattern := range []string{"token", "secret", "password", "key", "auth"} {
		if strings.Contains(lower, pattern) {
			return "********"
		}
	}
	return value
}
