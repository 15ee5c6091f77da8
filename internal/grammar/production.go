package grammar

import "ltree-renderer/internal/crayon"

// Production is a named, ordered list of instructions (one grammar rule).
// Call instructions hold pointers to productions, so rules may refer to
// themselves or to each other.
type Production struct {
	Name         string
	Instructions []Instruction
}

// Execute runs every instruction in order, stopping at the first error.
func (p *Production) Execute(c *crayon.Crayon, rng Source) error {
	return executeAll(p.Instructions, c, rng)
}
