// Package pipeline adapts annotation steps to a host release-note pipeline.
//
// Steps transform the commit collection the host hands over. The host calls
// RunSafe so that a misbehaving step degrades to a passthrough instead of
// aborting the release: worst case, changelog entries lack ticket links.
package pipeline

import (
	"fmt"
	"sync"

	"github.com/releasetrain/tracelink/internal/annotate"
	"github.com/releasetrain/tracelink/internal/changelog"
	"github.com/releasetrain/tracelink/internal/logging"
)

// Step is one commit-collection transformation in the pipeline.
type Step interface {
	// Name identifies the step in logs and the registry.
	Name() string

	// Run transforms the commit collection and returns it.
	Run(commits []*changelog.Commit) []*changelog.Commit
}

// RunSafe executes a step and recovers from any panic it raises, returning
// the input collection unmodified in that case. All-or-nothing: partially
// annotated output is never surfaced.
func RunSafe(step Step, commits []*changelog.Commit) (out []*changelog.Commit) {
	defer func() {
		if r := recover(); r != nil {
			logging.CapturePanic(r, "step", step.Name())
			out = commits
		}
	}()
	return step.Run(commits)
}

// Registry manages named pipeline steps.
type Registry struct {
	steps map[string]Step
	mu    sync.RWMutex
}

// NewRegistry creates an empty step registry.
func NewRegistry() *Registry {
	return &Registry{steps: make(map[string]Step)}
}

// Register adds a step to the registry.
func (r *Registry) Register(step Step) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := step.Name()
	if _, exists := r.steps[name]; exists {
		return fmt.Errorf("step %q already registered", name)
	}
	r.steps[name] = step
	return nil
}

// Step returns a registered step by name.
func (r *Registry) Step(name string) (Step, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.steps[name]
	return s, ok
}

// StepNames returns the names of all registered steps.
func (r *Registry) StepNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.steps))
	for name := range r.steps {
		names = append(names, name)
	}
	return names
}

// AnnotateStep adapts the annotation engine to the Step interface.
type AnnotateStep struct {
	opts annotate.Options
}

// NewAnnotateStep creates the ticket-link annotation step.
func NewAnnotateStep(opts annotate.Options) *AnnotateStep {
	return &AnnotateStep{opts: opts}
}

// Name implements Step.
func (s *AnnotateStep) Name() string { return "ticket-links" }

// Run implements Step.
func (s *AnnotateStep) Run(commits []*changelog.Commit) []*changelog.Commit {
	return annotate.Annotate(commits, s.opts)
}
