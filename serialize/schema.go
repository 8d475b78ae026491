// Package serialize implements the graph <-> JSON persistence format
// (spec.md §6), a plain-struct-with-json-tags schema in the style of
// gltf.GLTF, encoded/decoded with the standard encoding/json package
// rather than a bespoke parser.
package serialize

import "nodeflux/param"

// Document is the root of a saved graph file.
type Document struct {
	Version         string           `json:"version"`
	Nodes           []NodeRecord     `json:"nodes"`
	Connections     []ConnRecord     `json:"connections"`
	GraphParameters []GraphParamRecord `json:"graph_parameters,omitempty"`
}

// NodeRecord mirrors one graph node, including its full parameter
// schema+value list so a loader can reconstruct UI without re-reading
// each SOP's Go-side registration.
type NodeRecord struct {
	ID          int              `json:"id"`
	Type        string           `json:"type"`
	Name        string           `json:"name"`
	Position    [2]float32       `json:"position"`
	DisplayFlag bool             `json:"display_flag"`
	BypassFlag  bool             `json:"bypass_flag"`
	RenderFlag  bool             `json:"render_flag"`
	Parameters  []ParamRecord    `json:"parameters"`
}

// ParamRecord is one parameter's schema + current value.
type ParamRecord struct {
	Name          string   `json:"name"`
	Label         string   `json:"label,omitempty"`
	Category      string   `json:"category,omitempty"`
	UIHint        string   `json:"ui_hint,omitempty"`
	Type          string   `json:"type"`
	Value         any      `json:"value"`
	FloatMin      *float32 `json:"float_min,omitempty"`
	FloatMax      *float32 `json:"float_max,omitempty"`
	IntMin        *int64   `json:"int_min,omitempty"`
	IntMax        *int64   `json:"int_max,omitempty"`
	StringOptions []string `json:"string_options,omitempty"`
}

// ConnRecord is one entry in the connections table.
type ConnRecord struct {
	ID         int `json:"id"`
	SourceNode int `json:"source_node"`
	SourcePin  int `json:"source_pin"`
	TargetNode int `json:"target_node"`
	TargetPin  int `json:"target_pin"`
}

// GraphParamRecord is a graph-level (as opposed to per-node) parameter.
type GraphParamRecord struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Value       any    `json:"value"`
	Description string `json:"description,omitempty"`
}

// paramKindName maps param.Kind to the JSON schema's type string.
func paramKindName(k param.Kind) string {
	switch k {
	case param.KInt:
		return "int"
	case param.KFloat:
		return "float"
	case param.KBool:
		return "bool"
	case param.KString:
		return "string"
	case param.KVec3f:
		return "vector3"
	case param.KCode:
		return "code"
	default:
		return "string"
	}
}
