package profile

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"ltree-renderer/internal/grammar"
)

// Instruction defaults for omitted attributes.
const (
	DefaultRadiusScale    = 0.86
	DefaultTwistVariation = 360.0
	DefaultChance         = 0.5
	DefaultDelta          = -1
)

// ErrUnknownName is wrapped by errors for unknown productions and instructions.
var ErrUnknownName = errors.New("unknown name")

var instructionNames = []string{
	"align", "backward", "bone", "call", "child", "forward", "leaf",
	"level", "maybe", "pitch", "require_level", "scale", "scale_radius", "twist",
}

type compiler struct {
	evalCtx     *hcl.EvalContext
	productions map[string][]*grammar.Production
	order       []string // production names in declaration order, for suggestions
}

func (c *compiler) decode(blk *hclsyntax.Block, target any) error {
	if len(blk.Labels) > 0 {
		return fmt.Errorf("%s: %s takes no labels", blk.TypeRange, blk.Type)
	}
	if diags := gohcl.DecodeBody(blk.Body, c.evalCtx, target); diags.HasErrors() {
		return fmt.Errorf("%s: %w", blk.Type, diags)
	}
	return nil
}

// instructions compiles the blocks of body in source order. attrs names the
// attributes the enclosing block already decoded.
func (c *compiler) instructions(body *hclsyntax.Body, attrs ...string) ([]grammar.Instruction, error) {
	for name, attr := range body.Attributes {
		if !slices.Contains(attrs, name) {
			return nil, fmt.Errorf("%s: unexpected attribute %q; instructions are blocks", attr.SrcRange, name)
		}
	}

	list := make([]grammar.Instruction, 0, len(body.Blocks))
	for _, blk := range body.Blocks {
		in, err := c.instruction(blk)
		if err != nil {
			return nil, err
		}
		list = append(list, in)
	}
	return list, nil
}

func (c *compiler) instruction(blk *hclsyntax.Block) (grammar.Instruction, error) {
	switch blk.Type {
	case "forward":
		var b forwardBlock
		if err := c.decode(blk, &b); err != nil {
			return nil, err
		}
		radius := DefaultRadiusScale
		if b.Radius != nil {
			radius = *b.Radius
		}
		return grammar.Forward{Distance: b.Distance, Variation: b.Variation, RadiusScale: radius}, nil

	case "backward":
		var b backwardBlock
		if err := c.decode(blk, &b); err != nil {
			return nil, err
		}
		return grammar.Backward{Distance: b.Distance, Variation: b.Variation}, nil

	case "pitch":
		var b angleBlock
		if err := c.decode(blk, &b); err != nil {
			return nil, err
		}
		return grammar.NewPitch(b.Angle, b.Variation), nil

	case "twist":
		var b twistBlock
		if err := c.decode(blk, &b); err != nil {
			return nil, err
		}
		variation := DefaultTwistVariation
		if b.Variation != nil {
			variation = *b.Variation
		}
		return grammar.NewTwist(b.Angle, variation), nil

	case "scale":
		var b scaleBlock
		if err := c.decode(blk, &b); err != nil {
			return nil, err
		}
		return grammar.Scale{Scale: b.Scale, Variation: b.Variation}, nil

	case "scale_radius":
		var b scaleBlock
		if err := c.decode(blk, &b); err != nil {
			return nil, err
		}
		return grammar.ScaleRadius{Scale: b.Scale, Variation: b.Variation}, nil

	case "leaf":
		return c.leaf(blk)

	case "bone":
		var b deltaBlock
		if err := c.decode(blk, &b); err != nil {
			return nil, err
		}
		return grammar.Bone{Delta: deltaOr(b.Delta)}, nil

	case "level":
		var b deltaBlock
		if err := c.decode(blk, &b); err != nil {
			return nil, err
		}
		return grammar.Level{Delta: deltaOr(b.Delta)}, nil

	case "align":
		var b emptyBlock
		if err := c.decode(blk, &b); err != nil {
			return nil, err
		}
		return grammar.Align{}, nil

	case "call":
		var b callBlock
		if err := c.decode(blk, &b); err != nil {
			return nil, err
		}
		prods, err := c.resolve(b.Ref)
		if err != nil {
			return nil, fmt.Errorf("%s: call: %w", blk.TypeRange, err)
		}
		return grammar.Call{Productions: prods, Delta: deltaOr(b.Delta)}, nil

	case "child":
		var b scopeBlock
		if err := c.decode(blk, &b); err != nil {
			return nil, err
		}
		nested, err := c.instructions(blk.Body)
		if err != nil {
			return nil, err
		}
		return grammar.Child{Instructions: nested}, nil

	case "maybe":
		var b maybeBlock
		if err := c.decode(blk, &b); err != nil {
			return nil, err
		}
		chance := DefaultChance
		if b.Chance != nil {
			chance = *b.Chance
		}
		nested, err := c.instructions(blk.Body, "chance")
		if err != nil {
			return nil, err
		}
		return grammar.Maybe{Chance: chance, Instructions: nested}, nil

	case "require_level":
		var b requireLevelBlock
		if err := c.decode(blk, &b); err != nil {
			return nil, err
		}
		var cmp grammar.Compare
		switch b.Type {
		case "", "greater":
			cmp = grammar.Greater
		case "less":
			cmp = grammar.Less
		default:
			return nil, fmt.Errorf("%s: require_level type must be \"less\" or \"greater\", got %q", blk.TypeRange, b.Type)
		}
		nested, err := c.instructions(blk.Body, "level", "type")
		if err != nil {
			return nil, err
		}
		return grammar.RequireLevel{Level: b.Level, Compare: cmp, Instructions: nested}, nil
	}

	return nil, fmt.Errorf("%s: instruction %w", blk.TypeRange, unknown(blk.Type, instructionNames))
}

func (c *compiler) leaf(blk *hclsyntax.Block) (grammar.Instruction, error) {
	var b leafBlock
	if err := c.decode(blk, &b); err != nil {
		return nil, err
	}
	l := grammar.DefaultLeaf()
	l.AxisOffset = b.AxisOffset

	var err error
	if l.Color, err = color4(b.Color, l.Color); err != nil {
		return nil, fmt.Errorf("%s: leaf color: %w", blk.TypeRange, err)
	}
	if l.ColorVariation, err = color4(b.ColorVariation, l.ColorVariation); err != nil {
		return nil, fmt.Errorf("%s: leaf color_variation: %w", blk.TypeRange, err)
	}
	if l.Size, err = pair(b.Size, l.Size); err != nil {
		return nil, fmt.Errorf("%s: leaf size: %w", blk.TypeRange, err)
	}
	if l.SizeVariation, err = pair(b.SizeVariation, l.SizeVariation); err != nil {
		return nil, fmt.Errorf("%s: leaf size_variation: %w", blk.TypeRange, err)
	}
	return l, nil
}

// color4 accepts RGB or RGBA; a missing alpha stays at the default's alpha.
func color4(v []float64, def [4]float64) ([4]float64, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return [4]float64{v[0], v[1], v[2], def[3]}, nil
	case 4:
		return [4]float64{v[0], v[1], v[2], v[3]}, nil
	}
	return def, fmt.Errorf("want 3 or 4 components, got %d", len(v))
}

func pair(v []float64, def [2]float64) ([2]float64, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 2:
		return [2]float64{v[0], v[1]}, nil
	}
	return def, fmt.Errorf("want 2 components, got %d", len(v))
}

func deltaOr(d *int) int {
	if d == nil {
		return DefaultDelta
	}
	return *d
}

// resolve expands a "a|b" reference into every production carrying those names.
func (c *compiler) resolve(ref string) ([]*grammar.Production, error) {
	var out []*grammar.Production
	for _, name := range strings.Split(ref, "|") {
		name = strings.TrimSpace(name)
		prods, ok := c.productions[name]
		if !ok {
			return nil, c.unknownProduction(name)
		}
		out = append(out, prods...)
	}
	return out, nil
}

func (c *compiler) unknownProduction(name string) error {
	return fmt.Errorf("production %w", unknown(name, c.order))
}

// unknown builds an ErrUnknownName error, suggesting the closest candidate.
func unknown(name string, candidates []string) error {
	if s := suggest(name, candidates); s != "" {
		return fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownName, name, s)
	}
	return fmt.Errorf("%w %q", ErrUnknownName, name)
}

func suggest(name string, candidates []string) string {
	limit := len(name)/3 + 1
	best, bestDist := "", limit+1
	sorted := slices.Clone(candidates)
	slices.Sort(sorted)
	for _, cand := range sorted {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(cand))
		if d < bestDist {
			best, bestDist = cand, d
		}
	}
	if bestDist > limit {
		return ""
	}
	return best
}
