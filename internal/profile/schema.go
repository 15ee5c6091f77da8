package profile

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes the top-level attributes and blocks of a profile file.
type fileRoot struct {
	Root                   string    `hcl:"root"`
	Levels                 int       `hcl:"levels"`
	BoneLevels             *int      `hcl:"bone_levels,optional"`
	LeafAxis               []float64 `hcl:"leaf_axis,optional"`
	TextureHeight          *float64  `hcl:"texture_height,optional"`
	TextureHeightVariation float64   `hcl:"texture_height_variation,optional"`
	TrunkTexture           string    `hcl:"trunk_texture,optional"`
	LeafTexture            string    `hcl:"leaf_texture,optional"`

	Underground []*undergroundBlock `hcl:"constrain_underground,block"`
	Productions []*productionBlock  `hcl:"production,block"`
}

type undergroundBlock struct {
	LowerBound *float64 `hcl:"lower_bound,optional"`
}

type productionBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

type forwardBlock struct {
	Distance  float64  `hcl:"distance"`
	Variation float64  `hcl:"variation,optional"`
	Radius    *float64 `hcl:"radius,optional"`
}

type backwardBlock struct {
	Distance  float64 `hcl:"distance"`
	Variation float64 `hcl:"variation,optional"`
}

type angleBlock struct {
	Angle     float64 `hcl:"angle"`
	Variation float64 `hcl:"variation,optional"`
}

// twistBlock differs from angleBlock: both fields are optional and an
// omitted variation means a full random turn.
type twistBlock struct {
	Angle     float64  `hcl:"angle,optional"`
	Variation *float64 `hcl:"variation,optional"`
}

type scaleBlock struct {
	Scale     float64 `hcl:"scale"`
	Variation float64 `hcl:"variation,optional"`
}

type deltaBlock struct {
	Delta *int `hcl:"delta,optional"`
}

type callBlock struct {
	Ref   string `hcl:"ref"`
	Delta *int   `hcl:"delta,optional"`
}

type leafBlock struct {
	Color          []float64 `hcl:"color,optional"`
	ColorVariation []float64 `hcl:"color_variation,optional"`
	Size           []float64 `hcl:"size,optional"`
	SizeVariation  []float64 `hcl:"size_variation,optional"`
	AxisOffset     float64   `hcl:"axis_offset,optional"`
}

type maybeBlock struct {
	Chance *float64 `hcl:"chance,optional"`
	Remain hcl.Body `hcl:",remain"`
}

type requireLevelBlock struct {
	Level  int      `hcl:"level"`
	Type   string   `hcl:"type,optional"`
	Remain hcl.Body `hcl:",remain"`
}

type scopeBlock struct {
	Remain hcl.Body `hcl:",remain"`
}

type emptyBlock struct{}
