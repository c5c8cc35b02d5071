package logic

import (
	"fmt"

	"github.com/formward/formward/internal/types"
)

// Dependencies returns the field-level rule dependency graph: for every
// field carrying conditional logic, the set of field ids its rules read.
// Step-level logic is excluded; steps depend on fields but nothing depends
// on a step, so they cannot participate in cycles.
func Dependencies(schema *types.FormSchema) map[types.FieldID][]types.FieldID {
	deps := make(map[types.FieldID][]types.FieldID)
	for si := range schema.Steps {
		for fi := range schema.Steps[si].Fields {
			f := &schema.Steps[si].Fields[fi]
			if f.Logic == nil {
				continue
			}
			for _, r := range f.Logic.Rules {
				deps[f.ID] = append(deps[f.ID], r.FieldID)
			}
		}
	}
	return deps
}

// Dependents inverts Dependencies: for a given field, every field or step
// whose visibility may change when its answer changes. The runtime uses
// this to recompute only affected visibility on answer updates.
func Dependents(schema *types.FormSchema, id types.FieldID) []types.FieldID {
	var out []types.FieldID
	for owner, refs := range Dependencies(schema) {
		for _, ref := range refs {
			if ref == id {
				out = append(out, owner)
				break
			}
		}
	}
	return out
}

// DetectCycles rejects schemas whose rule references form a cycle, a rule
// referencing its own field included. DFS with three-color marking;
// deterministic error for the first cycle found.
func DetectCycles(schema *types.FormSchema) error {
	deps := Dependencies(schema)

	const (
		white = iota
		gray
		black
	)
	color := make(map[types.FieldID]int)

	var visit func(id types.FieldID) error
	visit = func(id types.FieldID) error {
		color[id] = gray
		for _, ref := range deps[id] {
			switch color[ref] {
			case gray:
				return fmt.Errorf("%w: field %q", types.ErrRuleCycle, ref)
			case white:
				if err := visit(ref); err != nil {
					return err
				}
			}
		}
		color[id] = black
		return nil
	}

	// Iterate steps in order rather than ranging the map so the reported
	// cycle is stable across runs.
	for si := range schema.Steps {
		for fi := range schema.Steps[si].Fields {
			id := schema.Steps[si].Fields[fi].ID
			if color[id] == white {
				if err := visit(id); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
