package profile

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ltree-renderer/internal/crayon"
	"ltree-renderer/internal/grammar"
	"ltree-renderer/internal/mathutil"
)

const birch = `
root                     = "trunk"
levels                   = 4
bone_levels              = 2
leaf_axis                = [0, 2, 0]
texture_height           = 256
texture_height_variation = 32
trunk_texture            = "textures/birch_bark.png"
leaf_texture             = "/abs/leaf.png"

constrain_underground {}

constrain_underground {
  lower_bound = 0
}

production "trunk" {
  forward {
    distance = 100 * levels
  }
  twist {}
  require_level {
    level = 2
    type  = "less"
    leaf {
      color = [0.2, 0.5, 0.1]
      size  = [40, 60]
    }
  }
  maybe {
    chance = 0.25
    bone {}
  }
  child {
    pitch {
      angle     = 30
      variation = 5
    }
    call {
      ref   = "trunk|fork"
      delta = -2
    }
  }
  call {
    ref = "trunk"
  }
}

production "fork" {
  forward {
    distance = 50
    radius   = 0.5
  }
  maybe {
    leaf {}
  }
}

production "fork" {
  align {}
  level {
    delta = 1
  }
}
`

func parse(t *testing.T, src string) *Profile {
	t.Helper()
	p, err := Parse(context.Background(), []byte(src), filepath.Join("profiles", "birch.hcl"))
	require.NoError(t, err)
	return p
}

func parseErr(t *testing.T, src string) error {
	t.Helper()
	_, err := Parse(context.Background(), []byte(src), "bad.hcl")
	require.Error(t, err)
	return err
}

func TestParseTopLevel(t *testing.T) {
	p := parse(t, birch)
	g := p.Generator

	assert.Equal(t, "birch", p.Name)
	assert.Equal(t, filepath.Join("profiles", "textures", "birch_bark.png"), p.TrunkTexture)
	assert.Equal(t, "/abs/leaf.png", p.LeafTexture)

	assert.Equal(t, "trunk", g.Root.Name)
	assert.Equal(t, 4, g.MaxLevel)
	assert.Equal(t, 2, g.BoneLevels)
	assert.Equal(t, 256.0, g.TextureHeight)
	assert.Equal(t, 32.0, g.TextureHeightVariation)
	require.NotNil(t, g.LeafAxis)
	assert.Equal(t, mathutil.Up, *g.LeafAxis)

	require.Len(t, g.Constraints, 2)
	assert.Equal(t, crayon.DefaultUndergroundLimit, g.Constraints[0].(*crayon.Underground).Limit)
	assert.Equal(t, 0.0, g.Constraints[1].(*crayon.Underground).Limit)
}

func TestParseInstructions(t *testing.T) {
	g := parse(t, birch).Generator
	list := g.Root.Instructions
	require.Len(t, list, 6)

	assert.Equal(t, grammar.Forward{Distance: 400, RadiusScale: DefaultRadiusScale}, list[0])
	assert.Equal(t, grammar.NewTwist(0, DefaultTwistVariation), list[1])
	assert.InDelta(t, 2*math.Pi, list[1].(grammar.Twist).Variation, 1e-12)

	req := list[2].(grammar.RequireLevel)
	assert.Equal(t, 2, req.Level)
	assert.Equal(t, grammar.Less, req.Compare)
	require.Len(t, req.Instructions, 1)
	leaf := req.Instructions[0].(grammar.Leaf)
	assert.Equal(t, [4]float64{0.2, 0.5, 0.1, 1}, leaf.Color)
	assert.Equal(t, [2]float64{40, 60}, leaf.Size)

	maybe := list[3].(grammar.Maybe)
	assert.Equal(t, 0.25, maybe.Chance)
	assert.Equal(t, []grammar.Instruction{grammar.Bone{Delta: DefaultDelta}}, maybe.Instructions)

	child := list[4].(grammar.Child)
	require.Len(t, child.Instructions, 2)
	assert.Equal(t, grammar.NewPitch(30, 5), child.Instructions[0])
	call := child.Instructions[1].(grammar.Call)
	assert.Equal(t, -2, call.Delta)
	// one trunk plus both productions named fork
	require.Len(t, call.Productions, 3)
	assert.Equal(t, "trunk", call.Productions[0].Name)
	assert.Equal(t, "fork", call.Productions[1].Name)
	assert.Equal(t, "fork", call.Productions[2].Name)

	self := list[5].(grammar.Call)
	assert.Equal(t, DefaultDelta, self.Delta)
	assert.Same(t, g.Root, self.Productions[0])
}

func TestParseDefaults(t *testing.T) {
	p := parse(t, birch)
	forks := p.Generator.Root.Instructions[4].(grammar.Child).Instructions[1].(grammar.Call).Productions[1:]

	assert.Equal(t, grammar.Forward{Distance: 50, RadiusScale: 0.5}, forks[0].Instructions[0])
	maybe := forks[0].Instructions[1].(grammar.Maybe)
	assert.Equal(t, DefaultChance, maybe.Chance)
	assert.Equal(t, grammar.DefaultLeaf(), maybe.Instructions[0])

	assert.Equal(t, []grammar.Instruction{grammar.Align{}, grammar.Level{Delta: 1}}, forks[1].Instructions)
}

func TestParsedProfileGenerates(t *testing.T) {
	g := parse(t, birch).Generator
	s, err := g.Generate(grammar.NewRand(3), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, s.Branches)
	assert.InDelta(t, 256, s.TextureHeight, 32)
}

func TestParseOmittedOptionals(t *testing.T) {
	p := parse(t, `
root   = "a"
levels = 1
production "a" {
  forward {
    distance = 1
  }
}
`)
	assert.Equal(t, crayon.DefaultBoneLevels, p.Generator.BoneLevels)
	assert.Equal(t, grammar.DefaultTextureHeight, p.Generator.TextureHeight)
	assert.Nil(t, p.Generator.LeafAxis)
	assert.Empty(t, p.Generator.Constraints)
	assert.Empty(t, p.TrunkTexture)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{
			name:    "syntax",
			src:     `root = `,
			wantMsg: "parse bad.hcl",
		},
		{
			name:    "missing levels",
			src:     `root = "a"`,
			wantMsg: "decode bad.hcl",
		},
		{
			name:    "zero levels",
			src:     "root = \"a\"\nlevels = 0\nproduction \"a\" {}\n",
			wantMsg: "max level must be positive",
		},
		{
			name:    "leaf axis length",
			src:     "root = \"a\"\nlevels = 1\nleaf_axis = [0, 1]\nproduction \"a\" {}\n",
			wantMsg: "leaf_axis needs 3 components",
		},
		{
			name:    "attribute in production",
			src:     "root = \"a\"\nlevels = 1\nproduction \"a\" {\n  distance = 3\n}\n",
			wantMsg: `unexpected attribute "distance"`,
		},
		{
			name:    "missing required attribute",
			src:     "root = \"a\"\nlevels = 1\nproduction \"a\" {\n  forward {}\n}\n",
			wantMsg: "forward",
		},
		{
			name:    "label on instruction",
			src:     "root = \"a\"\nlevels = 1\nproduction \"a\" {\n  align \"x\" {}\n}\n",
			wantMsg: "align takes no labels",
		},
		{
			name:    "bad comparison",
			src:     "root = \"a\"\nlevels = 1\nproduction \"a\" {\n  require_level {\n    level = 1\n    type = \"equal\"\n  }\n}\n",
			wantMsg: `got "equal"`,
		},
		{
			name:    "leaf color components",
			src:     "root = \"a\"\nlevels = 1\nproduction \"a\" {\n  leaf {\n    color = [1, 1]\n  }\n}\n",
			wantMsg: "want 3 or 4 components, got 2",
		},
		{
			name:    "leaf size components",
			src:     "root = \"a\"\nlevels = 1\nproduction \"a\" {\n  leaf {\n    size = [1, 1, 1]\n  }\n}\n",
			wantMsg: "want 2 components, got 3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseErr(t, tt.src)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestUnknownNamesSuggest(t *testing.T) {
	err := parseErr(t, "root = \"trnk\"\nlevels = 1\nproduction \"trunk\" {}\n")
	assert.ErrorIs(t, err, ErrUnknownName)
	assert.Contains(t, err.Error(), `"trnk" (did you mean "trunk"?)`)

	err = parseErr(t, "root = \"trunk\"\nlevels = 1\nproduction \"trunk\" {\n  call {\n    ref = \"trunk|Frok\"\n  }\n}\nproduction \"fork\" {}\n")
	assert.ErrorIs(t, err, ErrUnknownName)
	assert.Contains(t, err.Error(), `(did you mean "fork"?)`)

	err = parseErr(t, "root = \"a\"\nlevels = 1\nproduction \"a\" {\n  forwrd {\n    distance = 1\n  }\n}\n")
	assert.ErrorIs(t, err, ErrUnknownName)
	assert.Contains(t, err.Error(), `(did you mean "forward"?)`)

	err = parseErr(t, "root = \"a\"\nlevels = 1\nproduction \"a\" {\n  sprout {}\n}\n")
	assert.ErrorIs(t, err, ErrUnknownName)
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestSuggest(t *testing.T) {
	cands := []string{"trunk", "branch", "twig"}
	assert.Equal(t, "branch", suggest("brunch", cands))
	assert.Equal(t, "twig", suggest("TWIG", cands))
	assert.Empty(t, suggest("leaf", cands))
	assert.Empty(t, suggest("x", nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	minimal := "root = \"a\"\nlevels = 1\nproduction \"a\" {\n  forward {\n    distance = 1\n  }\n}\n"
	writeFile(t, filepath.Join(dir, "oak.hcl"), minimal)
	writeFile(t, filepath.Join(dir, "shrubs", "gorse.hcl"), minimal)
	writeFile(t, filepath.Join(dir, "README.txt"), "not a profile")
	single := filepath.Join(dir, "oak.hcl")

	profiles, err := LoadAll(context.Background(), dir, single, filepath.Join(dir, "missing"))
	require.NoError(t, err)

	var names []string
	for _, p := range profiles {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"oak", "gorse"}, names)
}

func TestLoadAllStopsOnBadProfile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "broken.hcl"), "root = \n")

	_, err := LoadAll(context.Background(), dir)
	assert.ErrorContains(t, err, "broken.hcl")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
