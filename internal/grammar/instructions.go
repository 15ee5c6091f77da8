// Package grammar holds the tree grammar: productions made of turtle
// instructions, and the Generator that runs a root production to build one
// skeleton. Productions and instructions are immutable after construction
// and may be shared by concurrent generation runs, each with its own crayon.
package grammar

import (
	"errors"
	"math"

	"ltree-renderer/internal/crayon"
	"ltree-renderer/internal/mathutil"
)

// ErrEmptyCall is returned when a Call has no candidate productions.
var ErrEmptyCall = errors.New("grammar: call has no productions")

// Source is the random stream threaded through every instruction.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// Instruction is one turtle operation. The set is closed: only the types in
// this package implement it.
type Instruction interface {
	Execute(c *crayon.Crayon, rng Source) error
	isInstruction()
}

// vary samples uniformly in [value-variation, value+variation).
func vary(rng Source, value, variation float64) float64 {
	return value + (rng.Float64()*2-1)*variation
}

func executeAll(list []Instruction, c *crayon.Crayon, rng Source) error {
	for _, in := range list {
		if err := in.Execute(c, rng); err != nil {
			return err
		}
	}
	return nil
}

// Forward grows a branch.
type Forward struct {
	Distance    float64
	Variation   float64
	RadiusScale float64 // end radius relative to start radius
}

func (f Forward) Execute(c *crayon.Crayon, rng Source) error {
	c.Forward(vary(rng, f.Distance, f.Variation), f.RadiusScale)
	return nil
}

// Backward walks the cursor toward the root.
type Backward struct {
	Distance  float64
	Variation float64
}

func (b Backward) Execute(c *crayon.Crayon, rng Source) error {
	c.Backward(vary(rng, b.Distance, b.Variation))
	return nil
}

// Pitch rotates about the local right axis. Angles are in radians.
type Pitch struct {
	Angle     float64
	Variation float64
}

// NewPitch builds a Pitch from degrees.
func NewPitch(angleDeg, variationDeg float64) Pitch {
	return Pitch{Angle: mathutil.Deg2Rad(angleDeg), Variation: mathutil.Deg2Rad(variationDeg)}
}

func (p Pitch) Execute(c *crayon.Crayon, rng Source) error {
	c.Pitch(vary(rng, p.Angle, p.Variation))
	return nil
}

// Twist rotates about the local up axis. Angles are in radians.
type Twist struct {
	Angle     float64
	Variation float64
}

// NewTwist builds a Twist from degrees.
func NewTwist(angleDeg, variationDeg float64) Twist {
	return Twist{Angle: mathutil.Deg2Rad(angleDeg), Variation: mathutil.Deg2Rad(variationDeg)}
}

func (t Twist) Execute(c *crayon.Crayon, rng Source) error {
	c.Twist(vary(rng, t.Angle, t.Variation))
	return nil
}

// Scale multiplies the length scale.
type Scale struct {
	Scale     float64
	Variation float64
}

func (s Scale) Execute(c *crayon.Crayon, rng Source) error {
	c.Scale(vary(rng, s.Scale, s.Variation))
	return nil
}

// ScaleRadius multiplies the radius scale of the next branch.
type ScaleRadius struct {
	Scale     float64
	Variation float64
}

func (s ScaleRadius) Execute(c *crayon.Crayon, rng Source) error {
	c.ScaleRadius(vary(rng, s.Scale, s.Variation))
	return nil
}

// Leaf places a leaf, but only once the level budget has reached 0.
type Leaf struct {
	Color          [4]float64
	ColorVariation [4]float64
	Size           [2]float64
	SizeVariation  [2]float64
	AxisOffset     float64
}

// DefaultLeaf is a white 128×128 leaf.
func DefaultLeaf() Leaf {
	return Leaf{
		Color: [4]float64{1, 1, 1, 1},
		Size:  [2]float64{128, 128},
	}
}

func (l Leaf) Execute(c *crayon.Crayon, rng Source) error {
	if c.Level() != 0 {
		return nil
	}
	rotation := 0.0
	if c.Skeleton().LeafAxis == nil {
		rotation = rng.Float64() * 2 * math.Pi
	}
	u := rng.Float64()*2 - 1
	size := [2]float64{l.Size[0] + l.SizeVariation[0]*u, l.Size[1] + l.SizeVariation[1]*u}
	u = rng.Float64()*2 - 1
	var color [4]float64
	for i := range color {
		color[i] = l.Color[i] + l.ColorVariation[i]*u
	}
	c.Leaf(rotation, size, color, l.AxisOffset)
	return nil
}

// Bone places a skinning bone at the cursor.
type Bone struct {
	Delta int
}

func (b Bone) Execute(c *crayon.Crayon, _ Source) error {
	c.Bone(b.Delta)
	return nil
}

// Child runs its instructions in an isolated scope so siblings can start
// from the same point.
type Child struct {
	Instructions []Instruction
}

func (ch Child) Execute(c *crayon.Crayon, rng Source) error {
	c.PushState()
	defer c.PopState()
	return executeAll(ch.Instructions, c, rng)
}

// Call runs one of Productions, chosen uniformly, with the level shifted by
// Delta. It does nothing if the shifted level would be negative, which is
// what bounds recursion in self-referential grammars.
type Call struct {
	Productions []*Production
	Delta       int
}

func (cl Call) Execute(c *crayon.Crayon, rng Source) error {
	if len(cl.Productions) == 0 {
		return ErrEmptyCall
	}
	if c.Level()+cl.Delta < 0 {
		return nil
	}
	c.SetLevel(c.Level() + cl.Delta)
	err := cl.Productions[rng.IntN(len(cl.Productions))].Execute(c, rng)
	c.SetLevel(c.Level() - cl.Delta)
	return err
}

// Level shifts the level budget directly.
type Level struct {
	Delta int
}

func (l Level) Execute(c *crayon.Crayon, _ Source) error {
	c.SetLevel(c.Level() + l.Delta)
	return nil
}

// Maybe runs its instructions with probability Chance.
type Maybe struct {
	Chance       float64
	Instructions []Instruction
}

func (m Maybe) Execute(c *crayon.Crayon, rng Source) error {
	if rng.Float64() < m.Chance {
		return executeAll(m.Instructions, c, rng)
	}
	return nil
}

// Compare selects how RequireLevel tests the level.
type Compare int

const (
	// Greater runs when level >= threshold.
	Greater Compare = iota
	// Less runs when level <= threshold.
	Less
)

func (cmp Compare) String() string {
	if cmp == Less {
		return "less"
	}
	return "greater"
}

// RequireLevel runs its instructions only if the level passes the comparison.
type RequireLevel struct {
	Level        int
	Compare      Compare
	Instructions []Instruction
}

func (r RequireLevel) Execute(c *crayon.Crayon, rng Source) error {
	lvl := c.Level()
	if (r.Compare == Greater && lvl >= r.Level) || (r.Compare == Less && lvl <= r.Level) {
		return executeAll(r.Instructions, c, rng)
	}
	return nil
}

// alignEpsilon skips Align when the cursor points within ~2.5° of vertical.
const alignEpsilon = 0.999

// Align twists the cursor so its local side axis is horizontal.
type Align struct{}

func (Align) Execute(c *crayon.Crayon, _ Source) error {
	m := c.Transform()
	dir := m.Up()
	dot := mathutil.Up.Dot(dir)
	if math.Abs(dot) > alignEpsilon {
		return nil
	}
	// world up projected onto the plane perpendicular to the branch
	axis := mathutil.Up.Sub(dir.Scale(dot)).Normalize()
	cos := math.Max(-1, math.Min(1, m.Backward().Dot(axis)))
	// Unsigned turn: a side axis already past horizontal is not levelled.
	c.Twist(math.Acos(cos))
	return nil
}

func (Forward) isInstruction()      {}
func (Backward) isInstruction()     {}
func (Pitch) isInstruction()        {}
func (Twist) isInstruction()        {}
func (Scale) isInstruction()        {}
func (ScaleRadius) isInstruction()  {}
func (Leaf) isInstruction()         {}
func (Bone) isInstruction()         {}
func (Child) isInstruction()        {}
func (Call) isInstruction()         {}
func (Level) isInstruction()        {}
func (Maybe) isInstruction()        {}
func (RequireLevel) isInstruction() {}
func (Align) isInstruction()        {}
