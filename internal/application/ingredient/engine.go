// Package ingredient provides the application layer for the scan session:
// the working candidate list and the user's selection over it.
package ingredient

import (
	"github.com/fridgechef/api/internal/domain/ingredient"
)

// Engine owns one session's candidate list and selected-id set. Selection
// truth lives exclusively here; the Selected flag on returned candidates is
// derived. Create engines with NewEngine.
//
// Engine is not safe for concurrent use; the owning Service serializes
// access per session.
type Engine struct {
	candidates []ingredient.Candidate
	selected   map[string]struct{}
}

// NewEngine creates an empty selection engine.
func NewEngine() *Engine {
	return &Engine{
		selected: make(map[string]struct{}),
	}
}

// IngestDetectionBatch replaces the entire candidate list and recomputes the
// selection set from scratch: a candidate is pre-selected iff its confidence
// exceeds the default threshold. The old selection is never merged in. An
// empty batch is valid and yields an empty list and selection.
func (e *Engine) IngestDetectionBatch(batch []ingredient.Candidate) {
	e.candidates = append([]ingredient.Candidate(nil), batch...)
	e.selected = make(map[string]struct{}, len(batch))
	for _, c := range e.candidates {
		if c.PreSelected() {
			e.selected[c.ID] = struct{}{}
		}
	}
}

// ToggleSelection flips membership of id in the selection set. Unknown ids
// are rejected; callers only toggle ids they currently render.
func (e *Engine) ToggleSelection(id string) error {
	if !e.has(id) {
		return ingredient.ErrUnknownCandidate
	}
	if _, ok := e.selected[id]; ok {
		delete(e.selected, id)
	} else {
		e.selected[id] = struct{}{}
	}
	return nil
}

// SelectAll sets the selection set to every candidate id.
func (e *Engine) SelectAll() {
	e.selected = make(map[string]struct{}, len(e.candidates))
	for _, c := range e.candidates {
		e.selected[c.ID] = struct{}{}
	}
}

// Clear empties both the candidate list and the selection set. Used when the
// user discards the current photo session.
func (e *Engine) Clear() {
	e.candidates = nil
	e.selected = make(map[string]struct{})
}

// AddManual appends a manually entered candidate and marks it selected. The
// name is trimmed and lowercased; an empty result is rejected.
func (e *Engine) AddManual(id, name string) (ingredient.Candidate, error) {
	c, err := ingredient.NewManual(id, name)
	if err != nil {
		return ingredient.Candidate{}, err
	}
	e.candidates = append(e.candidates, c)
	e.selected[c.ID] = struct{}{}
	return c, nil
}

// RemoveCandidate removes id from both the candidate list and the selection set.
func (e *Engine) RemoveCandidate(id string) {
	kept := e.candidates[:0]
	for _, c := range e.candidates {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	e.candidates = kept
	delete(e.selected, id)
}

// SelectedNames returns the names of every selected candidate in
// candidate-list order. This is the sole feed into recipe generation; an
// empty result means there is nothing to generate.
func (e *Engine) SelectedNames() []string {
	names := make([]string, 0, len(e.selected))
	for _, c := range e.candidates {
		if _, ok := e.selected[c.ID]; ok {
			names = append(names, c.Name)
		}
	}
	return names
}

// Candidates returns a copy of the candidate list with the Selected flag
// resolved against the selection set.
func (e *Engine) Candidates() []ingredient.Candidate {
	out := make([]ingredient.Candidate, len(e.candidates))
	for i, c := range e.candidates {
		c.Selected = false
		if _, ok := e.selected[c.ID]; ok {
			c.Selected = true
		}
		out[i] = c
	}
	return out
}

func (e *Engine) has(id string) bool {
	for _, c := range e.candidates {
		if c.ID == id {
			return true
		}
	}
	return false
}
