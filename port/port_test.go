package port

import (
	"testing"

	"nodeflux/geom"
)

func TestConnectDisconnect(t *testing.T) {
	out := New("output", Output, Geometry, 1)
	in := New("input", Input, Geometry, 2)
	if !Connect(in, out) {
		t.Fatal("Connect: want true")
	}
	if !in.Connected() {
		t.Fatal("Connected: want true")
	}
	h := geom.NewHandle(geom.New())
	out.SetData(h)
	if in.GetData().Read() != h.Read() {
		t.Fatal("GetData on input should forward upstream output's cache")
	}
	Disconnect(in)
	if in.Connected() {
		t.Fatal("Connected after Disconnect: want false")
	}
	if !in.GetData().IsNil() {
		t.Fatal("GetData after Disconnect should be nil")
	}
}

func TestConnectDirectionMismatch(t *testing.T) {
	a := New("a", Input, Geometry, 1)
	b := New("b", Input, Geometry, 2)
	if Connect(a, b) {
		t.Fatal("Connect between two inputs should fail")
	}
}

func TestConnectKindMismatch(t *testing.T) {
	out := New("out", Output, Parameter, 1)
	in := New("in", Input, Geometry, 2)
	if Connect(in, out) {
		t.Fatal("Connect with mismatched DataKind should fail")
	}
}

func TestInvalidateCachePropagates(t *testing.T) {
	out := New("out", Output, Geometry, 1)
	in1 := New("in1", Input, Geometry, 2)
	in2 := New("in2", Input, Geometry, 3)
	Connect(in1, out)
	Connect(in2, out)
	out.SetData(geom.NewHandle(geom.New()))
	out.InvalidateCache()
	if out.Valid() {
		t.Fatal("output should be invalid after InvalidateCache")
	}
	if !in1.GetData().IsNil() || !in2.GetData().IsNil() {
		t.Fatal("both consumers should observe invalidated (nil) data")
	}
}

func TestCollectionPrimary(t *testing.T) {
	c := NewCollection()
	if c.Primary() != nil {
		t.Fatal("Primary on empty collection should be nil")
	}
	c.AddOutput("geometry", Geometry, 1)
	if c.Primary() == nil {
		t.Fatal("Primary should be non-nil after AddOutput")
	}
}
