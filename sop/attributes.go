package sop

import (
	"nodeflux/attr"
	"nodeflux/geom"
	"nodeflux/linear"
	"nodeflux/param"
)

// --- AttributeCreate -----------------------------------------------------

type attributeCreateExec struct{}

// NewAttributeCreate adds a new attribute of the given class/type,
// filled with a constant value, or a no-op if it already exists.
func NewAttributeCreate(id int) *Node {
	n := singleInput(id, "attribute_create", attributeCreateExec{})
	n.RegisterParam(&param.Definition{Name: "name", Kind: param.KString, Default: param.String("attrib"), Category: "Attribute"})
	n.RegisterParam(&param.Definition{Name: "class", Kind: param.KInt, Default: param.Int(int64(attr.Point)), Options: []string{"point", "vertex", "primitive", "detail"}, Category: "Attribute"})
	n.RegisterParam(&param.Definition{Name: "type", Kind: param.KInt, Default: param.Int(int64(attr.Float)), Options: []string{"int", "float", "vec2f", "vec3f", "vec4f", "mat3f", "mat4f", "string"}, Category: "Attribute"})
	n.RegisterParam(&param.Definition{Name: "value_f", Kind: param.KFloat, Default: param.Float(0), Category: "Attribute"})
	n.RegisterParam(&param.Definition{Name: "value_v3", Kind: param.KVec3f, Default: param.Vec3f(linear.V3{}), Category: "Attribute"})
	n.RegisterParam(&param.Definition{Name: "value_s", Kind: param.KString, Default: param.String(""), Category: "Attribute"})
	return n
}

func (attributeCreateExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	name := n.GetString("name", "attrib")
	if name == "" {
		return Fail(NewError(ParameterInvalid, "attribute_create: name must not be empty"))
	}
	class := attr.Class(n.GetInt("class", int64(attr.Point)))
	typ := attr.Type(n.GetInt("type", int64(attr.Float)))

	out := in.Clone()
	c := out.Read()
	s := c.Set(class)
	if s == nil {
		return Fail(NewError(ParameterInvalid, "attribute_create: invalid class"))
	}
	if s.Has(name) {
		return Ok(out)
	}
	if err := s.Add(name, typ, attr.Linear, c.Count(class)); err != nil {
		return Fail(WrapError(AlgorithmFailure, err, "attribute_create"))
	}
	switch typ {
	case attr.Float:
		v := n.GetFloat("value_f", 0)
		st := attr.Get[float32](s, name)
		for i := 0; i < st.Size(); i++ {
			st.Set(i, v)
		}
	case attr.Int:
		v := int32(n.GetInt("value_f", 0))
		st := attr.Get[int32](s, name)
		for i := 0; i < st.Size(); i++ {
			st.Set(i, v)
		}
	case attr.Vec3f:
		v := n.GetVec3f("value_v3", linear.V3{})
		st := attr.Get[linear.V3](s, name)
		for i := 0; i < st.Size(); i++ {
			st.Set(i, v)
		}
	case attr.String:
		v := n.GetString("value_s", "")
		st := attr.Get[string](s, name)
		for i := 0; i < st.Size(); i++ {
			st.Set(i, v)
		}
	}
	return Ok(out)
}

// --- AttributeDelete -----------------------------------------------------

type attributeDeleteExec struct{}

func NewAttributeDelete(id int) *Node {
	n := singleInput(id, "attribute_delete", attributeDeleteExec{})
	n.RegisterParam(&param.Definition{Name: "name", Kind: param.KString, Default: param.String(""), Category: "Attribute"})
	n.RegisterParam(&param.Definition{Name: "class", Kind: param.KInt, Default: param.Int(int64(attr.Point)), Options: []string{"point", "vertex", "primitive", "detail"}, Category: "Attribute"})
	return n
}

func (attributeDeleteExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	name := n.GetString("name", "")
	class := attr.Class(n.GetInt("class", int64(attr.Point)))
	out := in.Clone()
	out.Read().Set(class).Remove(name)
	return Ok(out)
}

// --- Color -----------------------------------------------------------------

type colorExec struct{}

// NewColor sets the point "Cd" color attribute to a constant, honoring
// input_group.
func NewColor(id int) *Node {
	n := singleInput(id, "color", colorExec{})
	n.RegisterParam(&param.Definition{Name: "color", Kind: param.KVec3f, Default: param.Vec3f(linear.V3{1, 1, 1}), Category: "Color"})
	return n
}

func (colorExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	col := n.GetVec3f("color", linear.V3{1, 1, 1})
	out := in.Clone()
	c := out.Read()
	if !c.Points.Has("Cd") {
		c.Points.Add("Cd", attr.Vec3f, attr.Linear, c.Topo.PointCount())
	}
	cd := c.Colors()
	members, filtered := ApplyGroupFilter(in, n.InputGroup(), attr.Point)
	if filtered {
		for _, i := range members {
			cd.Set(i, col)
		}
	} else {
		for i := 0; i < cd.Size(); i++ {
			cd.Set(i, col)
		}
	}
	return Ok(out)
}
