package objio

import (
	"bytes"
	"strings"
	"testing"
)

const triangleOBJ = `
# a single triangle
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
`

func TestImportTriangle(t *testing.T) {
	c, err := Import(strings.NewReader(triangleOBJ))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if c.Topo.PointCount() != 3 {
		t.Errorf("PointCount = %d, want 3", c.Topo.PointCount())
	}
	if c.Topo.PrimitiveCount() != 1 {
		t.Errorf("PrimitiveCount = %d, want 1", c.Topo.PrimitiveCount())
	}
	if c.VertexNormals() == nil {
		t.Error("expected vertex normals to be recovered")
	}
}

func TestExportRoundTrip(t *testing.T) {
	c, err := Import(strings.NewReader(triangleOBJ))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	var buf bytes.Buffer
	if err := Export(&buf, c); err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "v 0 0 0") {
		t.Errorf("export missing expected vertex line, got:\n%s", out)
	}
	if !strings.Contains(out, "f 1//1 2//2 3//3") && !strings.Contains(out, "f 1//1 2//1 3//1") {
		t.Errorf("export missing expected face line, got:\n%s", out)
	}

	c2, err := Import(strings.NewReader(out))
	if err != nil {
		t.Fatalf("re-Import exported OBJ: %v", err)
	}
	if c2.Topo.PointCount() != c.Topo.PointCount() {
		t.Errorf("round trip point count mismatch: %d != %d", c2.Topo.PointCount(), c.Topo.PointCount())
	}
}

func TestImportMissingFaceVertex(t *testing.T) {
	_, err := Import(strings.NewReader("v 0 0 0\nf 1 2 3\n"))
	if err == nil {
		t.Fatal("expected out-of-range face index to error")
	}
}
