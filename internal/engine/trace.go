package engine

import (
	"fmt"

	"faraid-engine/internal/jsonpatch"
	"faraid-engine/internal/model"
	"faraid-engine/internal/stages"
)

// tracer records what each stage changed. A nil tracer records nothing.
type tracer struct {
	prev  any
	trace []model.StageTrace
}

func (t *tracer) start(s *stages.State) error {
	if t == nil {
		return nil
	}
	doc, err := s.Document()
	if err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	t.prev = doc
	return nil
}

func (t *tracer) record(stage string, s *stages.State) error {
	if t == nil {
		return nil
	}
	doc, err := s.Document()
	if err != nil {
		return fmt.Errorf("trace %s: %w", stage, err)
	}
	patch := jsonpatch.Diff(t.prev, doc, "")
	if patch == nil {
		patch = []jsonpatch.Op{}
	}
	t.trace = append(t.trace, model.StageTrace{Stage: stage, Patch: patch})
	t.prev = doc
	return nil
}

// stages returns the recorded trace, or nil when tracing was off or the
// run failed before any stage completed.
func (t *tracer) stages() []model.StageTrace {
	if t == nil {
		return nil
	}
	return t.trace
}
