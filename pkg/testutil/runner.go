package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/botctl/botctl/pkg/execx"
)

type fakeOutcome struct {
	result *execx.Result
	err    error
}

// FakeRunner is a scriptable execx.Runner for tests. It records every
// Spec it receives and answers from scripted outcomes instead of
// spawning real processes.
type FakeRunner struct {
	mu    sync.Mutex
	calls []execx.Spec

	stubs     map[string]fakeOutcome
	lookPaths map[string]string
	missing   map[string]bool

	// OnRun, when set, is invoked for every Run call before the
	// scripted outcome is resolved. Tests use it to simulate side
	// effects such as a venv directory appearing on disk.
	OnRun func(spec execx.Spec)
}

// NewFakeRunner creates a FakeRunner that answers success for every
// command and resolves every binary to /usr/bin/<name>.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		stubs:     make(map[string]fakeOutcome),
		lookPaths: make(map[string]string),
		missing:   make(map[string]bool),
	}
}

// Run records the spec and returns the scripted outcome whose prefix
// matches the command line; unmatched commands succeed.
func (f *FakeRunner) Run(_ context.Context, spec execx.Spec) (*execx.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, spec)
	hook := f.OnRun
	f.mu.Unlock()

	if hook != nil {
		hook(spec)
	}

	line := commandLine(spec)

	f.mu.Lock()
	defer f.mu.Unlock()

	// Longest matching prefix wins
	var bestPrefix string
	for prefix := range f.stubs {
		if strings.HasPrefix(line, prefix) && len(prefix) > len(bestPrefix) {
			bestPrefix = prefix
		}
	}
	if bestPrefix != "" {
		outcome := f.stubs[bestPrefix]
		return outcome.result, outcome.err
	}

	return &execx.Result{ExitCode: 0}, nil
}

// LookPath resolves scripted binary paths
func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.missing[name] {
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
	if path, ok := f.lookPaths[name]; ok {
		return path, nil
	}
	return "/usr/bin/" + name, nil
}

// StubCommand scripts the outcome for commands whose command line
// starts with prefix
func (f *FakeRunner) StubCommand(prefix string, result *execx.Result, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stubs[prefix] = fakeOutcome{result: result, err: err}
}

// StubLookPath scripts the resolved path for a binary name
func (f *FakeRunner) StubLookPath(name, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookPaths[name] = path
}

// FailLookPath makes LookPath fail for the given binary name
func (f *FakeRunner) FailLookPath(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.missing[name] = true
}

// Calls returns the recorded specs in execution order
func (f *FakeRunner) Calls() []execx.Spec {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]execx.Spec, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallLines returns each recorded call as a single command line string
func (f *FakeRunner) CallLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	lines := make([]string, len(f.calls))
	for i, spec := range f.calls {
		lines[i] = commandLine(spec)
	}
	return lines
}

func commandLine(spec execx.Spec) string {
	if len(spec.Args) == 0 {
		return spec.Name
	}
	return spec.Name + " " + strings.Join(spec.Args, " ")
}
