package crayon

// DefaultUndergroundLimit is the height below which downward branches are cut.
const DefaultUndergroundLimit = 256.0

// Constraint can veto or modify a Forward move before a branch is created.
// Implementations may rewrite distance and radiusEndScale in place; returning
// false cancels the move.
type Constraint interface {
	ConstrainForward(c *Crayon, distance, radiusEndScale *float64) bool
}

// ConstraintFunc adapts a plain function to Constraint.
type ConstraintFunc func(c *Crayon, distance, radiusEndScale *float64) bool

func (f ConstraintFunc) ConstrainForward(c *Crayon, distance, radiusEndScale *float64) bool {
	return f(c, distance, radiusEndScale)
}

// Composite runs Constraints in order, then User. The first veto wins and
// later constraints are not consulted.
type Composite struct {
	Constraints []Constraint
	User        Constraint
}

func (cc *Composite) ConstrainForward(c *Crayon, distance, radiusEndScale *float64) bool {
	for _, con := range cc.Constraints {
		if !con.ConstrainForward(c, distance, radiusEndScale) {
			return false
		}
	}
	if cc.User != nil {
		return cc.User.ConstrainForward(c, distance, radiusEndScale)
	}
	return true
}

// Underground vetoes branches that point downward and would end below Limit.
type Underground struct {
	Limit float64
}

// NewUnderground returns an underground constraint with the given lower bound.
func NewUnderground(limit float64) *Underground {
	return &Underground{Limit: limit}
}

func (u *Underground) ConstrainForward(c *Crayon, distance, _ *float64) bool {
	m := c.Transform()
	up := m.Up()
	if up[1] < 0 && m.Translation()[1]+up[1]*(*distance) < u.Limit {
		return false
	}
	return true
}
