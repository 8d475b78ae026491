package serialize

import (
	"bytes"
	"strings"
	"testing"

	"nodeflux/graph"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	g := graph.New()
	box, err := g.AddNode("box", "box1", 0)
	if err != nil {
		t.Fatalf("AddNode(box): %v", err)
	}
	xform, err := g.AddNode("transform", "xform1", 0)
	if err != nil {
		t.Fatalf("AddNode(transform): %v", err)
	}
	if err := g.AddConnection(box.ID, xform.ID, 0); err != nil {
		t.Fatalf("AddConnection: %v", err)
	}
	if err := g.SetDisplayNode(xform.ID); err != nil {
		t.Fatalf("SetDisplayNode: %v", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, g); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(buf.String(), `"Box"`) {
		t.Errorf("expected encoded document to contain \"Box\", got:\n%s", buf.String())
	}

	g2, warnings, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(g2.Nodes()) != 2 {
		t.Errorf("expected 2 nodes after round trip, got %d", len(g2.Nodes()))
	}
	if g2.DisplayNode() != xform.ID {
		t.Errorf("display node = %d, want %d", g2.DisplayNode(), xform.ID)
	}
	r := g2.CookDisplay()
	if r.IsErr() {
		t.Fatalf("CookDisplay after round trip: %v", r.Err)
	}
}

func TestDecodeSkipsDanglingConnection(t *testing.T) {
	doc := `{
		"version": "1.0",
		"nodes": [{"id": 1, "type": "Box", "name": "box1", "position": [0,0], "display_flag": false, "bypass_flag": false, "render_flag": true, "parameters": []}],
		"connections": [{"id": 0, "source_node": 1, "source_pin": 0, "target_node": 99, "target_pin": 0}]
	}`
	g, warnings, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("expected 1 warning for dangling connection, got %v", warnings)
	}
	if len(g.Connections()) != 0 {
		t.Errorf("expected dangling connection to be skipped, got %v", g.Connections())
	}
}
