package action

import (
	"context"
	"sort"
	"sync"

	pkgerrors "github.com/tombee/stagehand/pkg/errors"
)

// Registry indexes actions by their "category.name" reference.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]*Action
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string]*Action),
	}
}

// Register adds an action to the registry.
func (r *Registry) Register(a *Action) error {
	if a == nil || a.Name == "" || a.Category == "" {
		return &pkgerrors.ValidationError{
			Field:   "action",
			Message: "action needs a category and a name",
		}
	}
	if a.Run == nil {
		return &pkgerrors.ValidationError{
			Field:   a.Ref(),
			Message: "action has no run function",
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ref := a.Ref()
	if _, exists := r.actions[ref]; exists {
		return &pkgerrors.ValidationError{
			Field:   ref,
			Message: "action already registered",
		}
	}

	r.actions[ref] = a
	return nil
}

// MustRegister registers a static action table and panics on conflicts,
// which only arise from a coding mistake.
func (r *Registry) MustRegister(actions ...*Action) {
	for _, a := range actions {
		if err := r.Register(a); err != nil {
			panic(err)
		}
	}
}

// Get resolves a "category.name" reference.
func (r *Registry) Get(ref string) (*Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.actions[ref]
	if !ok {
		return nil, &pkgerrors.NotFoundError{
			Resource: "action",
			ID:       ref,
		}
	}
	return a, nil
}

// List returns all actions sorted by reference.
func (r *Registry) List() []*Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	actions := make([]*Action, 0, len(r.actions))
	for _, a := range r.actions {
		actions = append(actions, a)
	}
	sort.Slice(actions, func(i, j int) bool {
		return actions[i].Ref() < actions[j].Ref()
	})
	return actions
}

// Categories returns the sorted category names.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	for _, a := range r.actions {
		seen[a.Category] = true
	}

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

// ByCategory returns the actions in one category sorted by name.
func (r *Registry) ByCategory(category string) []*Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var actions []*Action
	for _, a := range r.actions {
		if a.Category == category {
			actions = append(actions, a)
		}
	}
	sort.Slice(actions, func(i, j int) bool {
		return actions[i].Name < actions[j].Name
	})
	return actions
}

// Len returns the number of registered actions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}

// Execute resolves a reference, applies declared defaults, checks required
// parameters, and runs the action.
func (r *Registry) Execute(ctx context.Context, ref string, inputs map[string]interface{}) (*Result, error) {
	a, err := r.Get(ref)
	if err != nil {
		return nil, err
	}

	merged := ApplyDefaults(a.Params, inputs)
	if err := ValidateRequired(a.Params, merged); err != nil {
		return nil, err
	}

	return a.Run(ctx, merged)
}
