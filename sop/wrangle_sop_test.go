package sop_test

import (
	"testing"

	"nodeflux/graph"
	"nodeflux/param"
)

func TestWrangleChDynamicallyDeclaresChannel(t *testing.T) {
	g := graph.New()
	box, _ := g.AddNode("box", "box1", 0)
	wr, _ := g.AddNode("wrangle", "wrangle1", 0)
	g.AddConnection(box.ID, wr.ID, 0)
	wr.Node.SetParam("code", param.Code(`@P.x = @P.x + ch("offset");`))

	if wr.Node.ParamDefinition("offset") != nil {
		t.Fatal("expected \"offset\" to not exist before the wrangle code ever runs")
	}

	first := g.CookNode(wr.ID)
	if first.IsErr() {
		t.Fatalf("cook: %v", first.Err)
	}
	if wr.Node.ParamDefinition("offset") == nil {
		t.Fatal("expected ch(\"offset\") to declare an \"offset\" parameter on first reference")
	}
	firstX := first.Value.Read().EnsurePositionAttribute().At(0)[0]

	wr.Node.SetParam("offset", param.Float(5))
	second := g.CookNode(wr.ID)
	if second.IsErr() {
		t.Fatalf("cook after setting offset: %v", second.Err)
	}
	secondX := second.Value.Read().EnsurePositionAttribute().At(0)[0]
	if secondX-firstX != 5 {
		t.Errorf("x shift after offset=5 = %v, want 5", secondX-firstX)
	}
}

func TestWrangleTimeBuiltinReflectsGraphTime(t *testing.T) {
	g := graph.New()
	box, _ := g.AddNode("box", "box1", 0)
	wr, _ := g.AddNode("wrangle", "wrangle1", 0)
	g.AddConnection(box.ID, wr.ID, 0)
	wr.Node.SetParam("code", param.Code(`@Cd.x = @time;`))

	g.SetTime(3.5)
	r := g.CookNode(wr.ID)
	if r.IsErr() {
		t.Fatalf("cook: %v", r.Err)
	}
	if got := r.Value.Read().Colors().At(0)[0]; got != 3.5 {
		t.Errorf("Cd.x = %v, want 3.5 (graph time)", got)
	}
}
