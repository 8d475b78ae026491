package serialize

// TypeName is one member of spec.md §6's closed node-type-name set,
// as it appears in a saved graph file. Several entries (Extrude vs.
// PolyExtrude, File vs. Export) are distinct node types; Grid
// serializes as "Plane" for backward compatibility.
type TypeName string

const (
	Sphere            TypeName = "Sphere"
	Box               TypeName = "Box"
	Cylinder          TypeName = "Cylinder"
	Grid              TypeName = "Plane" // backward-compat alias (internal type "grid")
	Torus             TypeName = "Torus"
	Line              TypeName = "Line"
	File              TypeName = "File"
	Export            TypeName = "Export"
	Extrude           TypeName = "Extrude"
	PolyExtrude       TypeName = "PolyExtrude"
	Smooth            TypeName = "Smooth"
	Subdivide         TypeName = "Subdivide"
	Transform         TypeName = "Transform"
	Array             TypeName = "Array"
	Mirror            TypeName = "Mirror"
	Resample          TypeName = "Resample"
	NoiseDisplacement TypeName = "NoiseDisplacement"
	Boolean           TypeName = "Boolean"
	Scatter           TypeName = "Scatter"
	ScatterVolume     TypeName = "ScatterVolume"
	CopyToPoints      TypeName = "CopyToPoints"
	Merge             TypeName = "Merge"
	Switch            TypeName = "Switch"
	Null              TypeName = "Null"
	Cache             TypeName = "Cache"
	Time              TypeName = "Time"
	Output            TypeName = "Output"
	UVUnwrap          TypeName = "UVUnwrap"
	Wrangle           TypeName = "Wrangle"
	AttributeCreate   TypeName = "AttributeCreate"
	AttributeDelete   TypeName = "AttributeDelete"
	Color             TypeName = "Color"
	Normal            TypeName = "Normal"
	Group             TypeName = "Group"
	GroupDelete       TypeName = "GroupDelete"
	GroupPromote      TypeName = "GroupPromote"
	GroupCombine      TypeName = "GroupCombine"
	GroupExpand       TypeName = "GroupExpand"
	GroupTransfer     TypeName = "GroupTransfer"
	Blast             TypeName = "Blast"
	Delete            TypeName = "Delete"
	Sort              TypeName = "Sort"
	Bend              TypeName = "Bend"
	Twist             TypeName = "Twist"
	Lattice           TypeName = "Lattice"
	Bevel             TypeName = "Bevel"
	Remesh            TypeName = "Remesh"
	Align             TypeName = "Align"
	Split             TypeName = "Split"
	Parameterize      TypeName = "Parameterize"
	Geodesic          TypeName = "Geodesic"
	Curvature         TypeName = "Curvature"
	RepairMesh        TypeName = "RepairMesh"
	Decimate          TypeName = "Decimate"
	Fuse              TypeName = "Fuse"
)

// toInternal maps a serialized TypeName to the internal sop package's
// lowercase-snake-case registry key.
var toInternal = map[TypeName]string{
	Sphere:            "sphere",
	Box:               "box",
	Cylinder:          "cylinder",
	Grid:              "grid", // "Plane", the backward-compat serialized name
	"Grid":            "grid", // accepted on decode even though never emitted
	Torus:             "torus",
	Line:              "line",
	File:              "file",
	Export:            "export",
	Extrude:           "extrude",
	PolyExtrude:       "poly_extrude",
	Smooth:            "smooth",
	Subdivide:         "subdivide",
	Transform:         "transform",
	Array:             "array",
	Mirror:            "mirror",
	Resample:          "resample",
	NoiseDisplacement: "noise_displacement",
	Boolean:           "boolean",
	Scatter:           "scatter",
	ScatterVolume:     "scatter_volume",
	CopyToPoints:      "copy_to_points",
	Merge:             "merge",
	Switch:            "switch",
	Null:              "null",
	Cache:             "cache",
	Time:              "time",
	Output:            "output",
	UVUnwrap:          "uv_unwrap",
	Wrangle:           "wrangle",
	AttributeCreate:   "attribute_create",
	AttributeDelete:   "attribute_delete",
	Color:             "color",
	Normal:            "normal",
	Group:             "group",
	GroupDelete:       "group_delete",
	GroupPromote:      "group_promote",
	GroupCombine:      "group_combine",
	GroupExpand:       "group_expand",
	GroupTransfer:     "group_transfer",
	Blast:             "blast",
	Delete:            "delete",
	Sort:              "sort",
	Bend:              "bend",
	Twist:             "twist",
	Lattice:           "lattice",
	Bevel:             "bevel",
	Remesh:            "remesh",
	Align:             "align",
	Split:             "split",
	Parameterize:      "parameterize",
	Geodesic:          "geodesic",
	Curvature:         "curvature",
	RepairMesh:        "repair_mesh",
	Decimate:          "decimate",
	Fuse:              "fuse",
}

var fromInternal = func() map[string]TypeName {
	m := make(map[string]TypeName, len(toInternal))
	for t, s := range toInternal {
		// "grid"/"plane" both resolve to internal "grid"; the
		// canonical serialized name for it is the "Plane" alias.
		if _, exists := m[s]; !exists {
			m[s] = t
		}
	}
	m["grid"] = Grid
	return m
}()

// ToInternalType resolves a serialized TypeName string to the
// sop.Create-compatible registry key. Unknown names return ("", false).
func ToInternalType(t string) (string, bool) {
	internal, ok := toInternal[TypeName(t)]
	return internal, ok
}

// FromInternalType resolves an internal sop registry key back to its
// canonical serialized TypeName string.
func FromInternalType(internal string) (string, bool) {
	t, ok := fromInternal[internal]
	return string(t), ok
}
