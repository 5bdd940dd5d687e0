package runner

import (
	"context"
	"strings"
	"sync"
)

// Recorder is a Runner that records invocations instead of executing them.
// It backs both dry-run output and the unit tests of anything that shells
// out.
type Recorder struct {
	mu    sync.Mutex
	calls [][]string

	// Fail, when set, is consulted after each invocation is recorded; a
	// non-nil result is returned to the caller. Failed invocations still
	// appear in Calls, matching a real runner where the attempt happens
	// before the failure.
	Fail func(name string, args []string) error

	// Results maps a command prefix (joined by spaces) to canned Output
	// content.
	Results map[string][]byte
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Run(ctx context.Context, name string, args ...string) error {
	return r.record(name, args)
}

func (r *Recorder) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if err := r.record(name, args); err != nil {
		return nil, err
	}
	full := name + " " + strings.Join(args, " ")
	for prefix, out := range r.Results {
		if strings.HasPrefix(full, prefix) {
			return out, nil
		}
	}
	return nil, nil
}

func (r *Recorder) record(name string, args []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	call := append([]string{name}, args...)
	r.calls = append(r.calls, call)
	if r.Fail != nil {
		if err := r.Fail(name, args); err != nil {
			return err
		}
	}
	return nil
}

// Calls returns every recorded invocation, in order.
func (r *Recorder) Calls() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// CommandLines renders the recorded invocations one per line, for dry-run
// display.
func (r *Recorder) CommandLines() []string {
	calls := r.Calls()
	lines := make([]string, len(calls))
	for i, call := range calls {
		lines[i] = strings.Join(call, " ")
	}
	return lines
}
