package grammar

import (
	"errors"
	"fmt"

	"ltree-renderer/internal/crayon"
	"ltree-renderer/internal/mathutil"
	"ltree-renderer/internal/skeleton"
)

var (
	// ErrNoRoot is returned by Generate when no root production is set.
	ErrNoRoot = errors.New("grammar: generator has no root production")
	// ErrNoLevels is returned by Generate when MaxLevel is not positive.
	ErrNoLevels = errors.New("grammar: generator max level must be positive")
)

// DefaultTextureHeight is the trunk texture repeat length.
const DefaultTextureHeight = 512.0

// Generator owns a grammar and the parameters of a generation run. It is
// read-only during Generate, so one Generator may serve many goroutines as
// long as each passes its own Source.
type Generator struct {
	Root       *Production
	MaxLevel   int
	BoneLevels int
	// LeafAxis is a unit vector, or nil for free billboards.
	LeafAxis *mathutil.Vec3

	TextureHeight          float64
	TextureHeightVariation float64

	Constraints []crayon.Constraint
}

// NewGenerator returns a generator with default bone levels and texture height.
func NewGenerator(root *Production, maxLevel int) *Generator {
	return &Generator{
		Root:          root,
		MaxLevel:      maxLevel,
		BoneLevels:    crayon.DefaultBoneLevels,
		TextureHeight: DefaultTextureHeight,
	}
}

// Validate reports configuration errors that would make Generate fail.
func (g *Generator) Validate() error {
	if g.Root == nil {
		return ErrNoRoot
	}
	if g.MaxLevel <= 0 {
		return fmt.Errorf("%w: got %d", ErrNoLevels, g.MaxLevel)
	}
	return nil
}

// Generate builds one skeleton. user, if non-nil, is consulted after the
// generator's own constraints on every Forward.
func (g *Generator) Generate(rng Source, user crayon.Constraint) (*skeleton.Skeleton, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	skel := skeleton.New()
	if g.LeafAxis != nil {
		axis := g.LeafAxis.Normalize()
		skel.LeafAxis = &axis
	}
	skel.AddBone(skeleton.RootBone())

	c := crayon.New(skel)
	c.SetLevel(g.MaxLevel)
	c.SetBoneLevels(g.BoneLevels)
	c.SetConstraints(&crayon.Composite{Constraints: g.Constraints, User: user})

	if err := g.Root.Execute(c, rng); err != nil {
		return nil, fmt.Errorf("grammar: production %q: %w", g.Root.Name, err)
	}

	skel.CloseEdgeBranches()
	skel.TextureHeight = g.TextureHeight + g.TextureHeightVariation*(2*rng.Float64()-1)
	return skel, nil
}
