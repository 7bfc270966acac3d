package action

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/tombee/stagehand/pkg/errors"
)

func noopRun(ctx context.Context, inputs map[string]interface{}) (*Result, error) {
	return &Result{StatusCode: 200}, nil
}

func TestRegistry_Register(t *testing.T) {
	tests := []struct {
		name    string
		action  *Action
		wantErr bool
	}{
		{
			name: "valid action",
			action: &Action{
				Name:     "create",
				Category: "issues",
				Run:      noopRun,
			},
			wantErr: false,
		},
		{
			name:    "nil action",
			action:  nil,
			wantErr: true,
		},
		{
			name: "missing category",
			action: &Action{
				Name: "create",
				Run:  noopRun,
			},
			wantErr: true,
		},
		{
			name: "missing run",
			action: &Action{
				Name:     "create",
				Category: "issues",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			err := r.Register(tt.action)
			if (err != nil) != tt.wantErr {
				t.Errorf("Register() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	a := &Action{Name: "create", Category: "issues", Run: noopRun}

	if err := r.Register(a); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if err := r.Register(a); err == nil {
		t.Error("second Register() error = nil, want duplicate error")
	}
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&Action{Name: "create", Category: "issues", Run: noopRun})

	a, err := r.Get("issues.create")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if a.Ref() != "issues.create" {
		t.Errorf("Ref() = %q, want %q", a.Ref(), "issues.create")
	}

	_, err = r.Get("issues.missing")
	if err == nil {
		t.Fatal("Get() error = nil for unknown ref")
	}
	var nferr *pkgerrors.NotFoundError
	if !errors.As(err, &nferr) {
		t.Errorf("Get() error type = %T, want *NotFoundError", err)
	}
}

func TestRegistry_ListSorted(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(
		&Action{Name: "merge", Category: "pulls", Run: noopRun},
		&Action{Name: "create", Category: "issues", Run: noopRun},
		&Action{Name: "get", Category: "issues", Run: noopRun},
	)

	list := r.List()
	if len(list) != 3 {
		t.Fatalf("List() returned %d actions, want 3", len(list))
	}
	want := []string{"issues.create", "issues.get", "pulls.merge"}
	for i, a := range list {
		if a.Ref() != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, a.Ref(), want[i])
		}
	}
}

func TestRegistry_Categories(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(
		&Action{Name: "merge", Category: "pulls", Run: noopRun},
		&Action{Name: "create", Category: "issues", Run: noopRun},
		&Action{Name: "get", Category: "issues", Run: noopRun},
	)

	categories := r.Categories()
	if len(categories) != 2 || categories[0] != "issues" || categories[1] != "pulls" {
		t.Errorf("Categories() = %v, want [issues pulls]", categories)
	}

	issues := r.ByCategory("issues")
	if len(issues) != 2 || issues[0].Name != "create" || issues[1].Name != "get" {
		t.Errorf("ByCategory(issues) = %v", issues)
	}
}

func TestRegistry_Execute(t *testing.T) {
	r := NewRegistry()

	var gotInputs map[string]interface{}
	r.MustRegister(&Action{
		Name:     "list",
		Category: "issues",
		Params: []Param{
			{Name: "owner", Type: TypeString, Required: true},
			{Name: "state", Type: TypeString, Default: "open"},
		},
		Run: func(ctx context.Context, inputs map[string]interface{}) (*Result, error) {
			gotInputs = inputs
			return &Result{Action: "issues.list", StatusCode: 200}, nil
		},
	})

	result, err := r.Execute(context.Background(), "issues.list", map[string]interface{}{
		"owner": "octocat",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", result.StatusCode)
	}

	// Defaults were applied before the run function saw the inputs.
	if gotInputs["state"] != "open" {
		t.Errorf("run saw state = %v, want default applied", gotInputs["state"])
	}
}

func TestRegistry_ExecuteMissingRequired(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&Action{
		Name:     "get",
		Category: "repos",
		Params: []Param{
			{Name: "owner", Type: TypeString, Required: true},
		},
		Run: func(ctx context.Context, inputs map[string]interface{}) (*Result, error) {
			t.Fatal("run function called despite missing required parameter")
			return nil, nil
		},
	})

	_, err := r.Execute(context.Background(), "repos.get", map[string]interface{}{})
	if err == nil {
		t.Fatal("Execute() error = nil, want validation error")
	}
	var verr *pkgerrors.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Execute() error type = %T, want *ValidationError", err)
	}
}

func TestAction_ParamLookup(t *testing.T) {
	a := &Action{
		Name:     "create",
		Category: "labels",
		Params: []Param{
			{Name: "name", Type: TypeString, Required: true},
			{Name: "color", Type: TypeString},
		},
		Run: noopRun,
	}

	p, ok := a.Param("color")
	if !ok || p.Type != TypeString {
		t.Errorf("Param(color) = %+v, %v", p, ok)
	}
	if _, ok := a.Param("missing"); ok {
		t.Error("Param(missing) found, want not found")
	}
}
