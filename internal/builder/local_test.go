package builder

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sinzlab/labctl/internal/runner"
	"github.com/sinzlab/labctl/internal/schema"
)

func TestLocalDriverBuild(t *testing.T) {
	spec := schema.DefaultProject().Build
	handoff := t.TempDir()

	rec := runner.NewRecorder()
	driver := NewLocalDriver(rec, testLogger(), handoff)

	ref, err := driver.Build(context.Background(), spec, testBindings, "build-1")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if ref != handoff {
		t.Errorf("local driver should hand back the handoff location, got %s", ref)
	}

	calls := rec.Calls()

	// Phase one: six clones into the handoff, in order.
	var clones, installs [][]string
	for _, call := range calls {
		switch call[0] {
		case "git":
			clones = append(clones, call)
		case "python3":
			installs = append(installs, call)
		}
	}
	if len(clones) != 6 {
		t.Fatalf("expected 6 clones, got %d", len(clones))
	}
	for i, inst := range spec.Checkouts() {
		joined := strings.Join(clones[i], " ")
		if !strings.HasSuffix(joined, filepath.Join(handoff, inst.Name)) {
			t.Errorf("clone %d should target the handoff dir for %s: %s", i, inst.Name, joined)
		}
	}

	// Phase one happens entirely before phase two.
	lastClone, firstInstall := -1, len(calls)
	for i, call := range calls {
		if call[0] == "git" {
			lastClone = i
		}
		if call[0] == "python3" && i < firstInstall {
			firstInstall = i
		}
	}
	if lastClone > firstInstall {
		t.Error("all clones must complete before any install runs")
	}

	// Phase two: eight list installs plus own source, in order, consuming
	// only the handoff and pinned URLs.
	if len(installs) != 9 {
		t.Fatalf("expected 9 installs, got %d", len(installs))
	}
	for i, inst := range spec.Installs {
		joined := strings.Join(installs[i], " ")
		var want string
		switch inst.Kind {
		case schema.InstallCheckout:
			want = filepath.Join(handoff, inst.Name)
		case schema.InstallArchive:
			want = inst.URL
		}
		if !strings.Contains(joined, want) {
			t.Errorf("install %d should reference %s: %s", i, want, joined)
		}
		if strings.Contains(joined, "tok123") {
			t.Errorf("install %d must not see the credential: %s", i, joined)
		}
	}
	if !strings.Contains(strings.Join(installs[8], " "), "-e .") {
		t.Errorf("last install should be the own source tree: %v", installs[8])
	}
}

func TestLocalDriverFailFast(t *testing.T) {
	spec := schema.DefaultProject().Build

	rec := runner.NewRecorder()
	rec.Fail = func(name string, args []string) error {
		// Third install step breaks.
		if name == "python3" && strings.Contains(strings.Join(args, " "), "/mei") {
			return &runner.ExitError{Cmd: "pip", Code: 1}
		}
		return nil
	}
	driver := NewLocalDriver(rec, testLogger(), t.TempDir())

	_, err := driver.Build(context.Background(), spec, testBindings, "build-1")
	if err == nil {
		t.Fatal("expected install failure")
	}
	if !strings.Contains(err.Error(), "mei") {
		t.Errorf("error should name the failing install: %v", err)
	}

	// Nothing after the failed step may run.
	for _, call := range rec.Calls() {
		joined := strings.Join(call, " ")
		if call[0] == "python3" && strings.Contains(joined, "data_port") {
			t.Error("installs after the failure must not run")
		}
	}
}

func TestLocalDriverCloneErrorHidesCredential(t *testing.T) {
	spec := schema.DefaultProject().Build

	rec := runner.NewRecorder()
	rec.Fail = func(name string, args []string) error {
		if name == "git" && strings.Contains(strings.Join(args, " "), "data_port") {
			return &runner.ExitError{Cmd: "git", Code: 128}
		}
		return nil
	}
	driver := NewLocalDriver(rec, testLogger(), t.TempDir())

	_, err := driver.Build(context.Background(), spec, testBindings, "build-1")
	if err == nil {
		t.Fatal("expected clone failure")
	}
	if strings.Contains(err.Error(), "tok123") {
		t.Error("clone errors must not carry the credential")
	}
	if !strings.Contains(err.Error(), "data_port") {
		t.Errorf("error should name the package: %v", err)
	}
}

func TestLocalDriverRequiresHandoff(t *testing.T) {
	driver := NewLocalDriver(runner.NewRecorder(), testLogger(), "")
	if _, err := driver.Build(context.Background(), schema.DefaultProject().Build, testBindings, "build-1"); err == nil {
		t.Fatal("expected error without a handoff directory")
	}
}
