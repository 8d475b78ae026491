package serialize

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/pkg/errors"

	"nodeflux/graph"
	"nodeflux/param"
	"nodeflux/sop"
)

const schemaVersion = "1.0"

// Encode writes g as a Document to w (spec.md §6's JSON schema).
func Encode(w io.Writer, g *graph.NodeGraph) error {
	doc := Document{Version: schemaVersion}

	nodes := g.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	for _, gn := range nodes {
		typeName, ok := FromInternalType(gn.Node.TypeName)
		if !ok {
			return errors.Errorf("serialize: node %d has unregistered type %q", gn.ID, gn.Node.TypeName)
		}
		rec := NodeRecord{
			ID:          gn.ID,
			Type:        typeName,
			Name:        gn.Name,
			Position:    [2]float32{gn.X, gn.Y},
			DisplayFlag: gn.Display,
			BypassFlag:  gn.Node.Bypass,
			RenderFlag:  !gn.Node.Bypass,
		}
		for _, name := range gn.Node.ParamNames() {
			def := gn.Node.ParamDefinition(name)
			val := gn.Node.Param(name)
			pr := ParamRecord{
				Name:     def.Name,
				Label:    def.Label,
				Category: def.Category,
				UIHint:   string(def.Hint),
				Type:     paramKindName(def.Kind),
				Value:    paramValueJSON(val),
			}
			if def.HasFloatRange {
				lo, hi := def.FloatMin, def.FloatMax
				pr.FloatMin, pr.FloatMax = &lo, &hi
			}
			if def.HasIntRange {
				lo, hi := def.IntMin, def.IntMax
				pr.IntMin, pr.IntMax = &lo, &hi
			}
			if len(def.Options) > 0 {
				pr.StringOptions = def.Options
			}
			rec.Parameters = append(rec.Parameters, pr)
		}
		doc.Nodes = append(doc.Nodes, rec)
	}

	for i, c := range g.Connections() {
		doc.Connections = append(doc.Connections, ConnRecord{
			ID:         i,
			SourceNode: c.Src,
			SourcePin:  0,
			TargetNode: c.Dst,
			TargetPin:  c.InputIndex,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&doc)
}

func paramValueJSON(v param.Value) any {
	switch v.Kind {
	case param.KInt:
		return v.I
	case param.KFloat:
		return v.F
	case param.KBool:
		return v.B
	case param.KString, param.KCode:
		return v.S
	case param.KVec3f:
		return [3]float32{v.V[0], v.V[1], v.V[2]}
	default:
		return nil
	}
}

// Decode reads a Document from r and rebuilds it into a fresh
// NodeGraph. Node ids are preserved verbatim (spec.md §6); connections
// referencing a missing node or incompatible port are skipped rather
// than failing the whole load.
func Decode(r io.Reader) (*graph.NodeGraph, []string, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, errors.Wrap(err, "serialize: decode")
	}

	g := graph.New()
	var warnings []string
	idSet := make(map[int]bool, len(doc.Nodes))

	// The schema has no explicit "number of inputs" field for variadic
	// nodes (Merge, Switch); it is recovered as the highest target_pin
	// the connection table addresses on that node plus one (at least 2).
	numInputsOf := make(map[int]int, len(doc.Nodes))
	for _, c := range doc.Connections {
		if c.TargetPin+1 > numInputsOf[c.TargetNode] {
			numInputsOf[c.TargetNode] = c.TargetPin + 1
		}
	}

	for _, rec := range doc.Nodes {
		internal, ok := ToInternalType(rec.Type)
		if !ok {
			warnings = append(warnings, "unknown node type "+rec.Type+", skipped")
			continue
		}
		numInputs := numInputsOf[rec.ID]
		if numInputs < 2 {
			numInputs = 2
		}
		gn, err := g.AddNodeWithID(rec.ID, internal, rec.Name, numInputs)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		idSet[rec.ID] = true
		gn.X, gn.Y = rec.Position[0], rec.Position[1]
		gn.Node.Bypass = rec.BypassFlag
		for _, p := range rec.Parameters {
			applyParamValue(gn.Node, p)
		}
		if rec.DisplayFlag {
			if err := g.SetDisplayNode(rec.ID); err != nil {
				warnings = append(warnings, err.Error())
			}
		}
	}

	for _, c := range doc.Connections {
		if !idSet[c.SourceNode] || !idSet[c.TargetNode] {
			warnings = append(warnings, "connection references missing node, skipped")
			continue
		}
		if err := g.AddConnection(c.SourceNode, c.TargetNode, c.TargetPin); err != nil {
			warnings = append(warnings, err.Error())
		}
	}

	return g, warnings, nil
}

func applyParamValue(n *sop.Node, p ParamRecord) {
	switch p.Type {
	case "int":
		if f, ok := p.Value.(float64); ok {
			n.SetParam(p.Name, param.Int(int64(f)))
		}
	case "float":
		if f, ok := p.Value.(float64); ok {
			n.SetParam(p.Name, param.Float(float32(f)))
		}
	case "bool":
		if b, ok := p.Value.(bool); ok {
			n.SetParam(p.Name, param.Bool(b))
		}
	case "string", "code", "group_selector":
		if s, ok := p.Value.(string); ok {
			n.SetParam(p.Name, param.String(s))
		}
	case "vector3":
		if arr, ok := p.Value.([]any); ok && len(arr) == 3 {
			var v [3]float32
			for i, x := range arr {
				if f, ok := x.(float64); ok {
					v[i] = float32(f)
				}
			}
			n.SetParam(p.Name, param.Vec3f(v))
		}
	}
}
