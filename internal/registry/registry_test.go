package registry

import (
	"testing"

	"github.com/vovakirdan/blast-arcade/internal/core"
)

type stubGame struct {
	id     string
	closed *int
}

func (g stubGame) ID() string { return g.id }
func (g stubGame) Title() string { return "Stub " + g.id }
func (g stubGame) Reset(core.RuntimeConfig) {}
func (g stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g stubGame) Render(*core.Screen) {}
func (g stubGame) State() core.GameState { return core.GameState{} }
func (g stubGame) Close() { *g.closed++ }

func TestRegistry(t *testing.T) {
	r := New()
	closed := 0
	factory := func(id string) Factory {
		return func() Game { return stubGame{id: id, closed: &closed} }
	}

	if err := r.Register("zeta", factory("zeta")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register("alpha", factory("alpha")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register("alpha", factory("alpha")); err == nil {
		t.Error("duplicate Register should fail")
	}
	if closed != 2 {
		t.Errorf("title probes should be closed, closed=%d", closed)
	}

	list := r.List()
	if len(list) != 2 || list[0].ID != "alpha" || list[1].Title != "Stub zeta" {
		t.Errorf("List() = %+v", list)
	}

	g, err := r.Create("zeta")
	if err != nil || g.ID() != "zeta" {
		t.Errorf("Create(zeta) = %v, %v", g, err)
	}
	if _, err := r.Create("missing"); err == nil {
		t.Error("Create of unknown game should fail")
	}
	if !r.Exists("alpha") || r.Exists("missing") {
		t.Error("Exists reports wrong result")
	}
}
