package param

// UIHint is a display hint for the node-graph editor UI (spec.md
// treats the editor itself as out of scope; the hint string is kept
// because it round-trips through the JSON schema in spec.md §6).
type UIHint string

const (
	HintNone      UIHint = ""
	HintFilePath  UIHint = "filepath"
	HintButton    UIHint = "button"
	HintMultiline UIHint = "multiline"
)

// Visibility makes a parameter's visibility conditional on another
// parameter's value (e.g. a "custom plane" vector pair only shown
// when Mirror's "plane" enum is set to "custom").
type Visibility struct {
	DependsOn string
	Equals    string
}

// Definition is immutable per-parameter schema metadata. SOPs register
// their schema once at construction (spec.md §3).
type Definition struct {
	Name        string
	Label       string
	Category    string
	Description string
	Kind        Kind
	Default     Value
	FloatMin    float32
	FloatMax    float32
	HasFloatRange bool
	IntMin      int64
	IntMax      int64
	HasIntRange bool
	Options     []string // enum options, for Int-as-combo parameters
	Hint        UIHint
	Visible     *Visibility
}
