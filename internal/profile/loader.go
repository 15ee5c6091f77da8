// Package profile loads tree generators from HCL profile files.
//
// A profile names a root production, the level budget and optional
// constraints, then lists productions whose blocks are turtle instructions
// executed in file order:
//
//	root   = "trunk"
//	levels = 4
//
//	constrain_underground {
//	  lower_bound = 0
//	}
//
//	production "trunk" {
//	  forward {
//	    distance = 300
//	    radius   = 0.8
//	  }
//	  call {
//	    ref = "trunk|fork"
//	  }
//	}
//
// Several productions may share a name; a call picks uniformly among all of
// them. Expressions may use the variables pi and levels.
package profile

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"ltree-renderer/internal/crayon"
	"ltree-renderer/internal/ctxlog"
	"ltree-renderer/internal/grammar"
	"ltree-renderer/internal/mathutil"
)

// Extension is the file extension of profile files.
const Extension = ".hcl"

// Profile is a loaded tree profile.
type Profile struct {
	Name      string // file name without extension
	Path      string
	Generator *grammar.Generator

	// Texture paths, resolved against the profile's directory. Empty if unset.
	TrunkTexture string
	LeafTexture  string
}

// Load reads and compiles one profile file.
func Load(ctx context.Context, path string) (*Profile, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: read %s: %w", path, err)
	}
	return Parse(ctx, src, path)
}

// Parse compiles profile source. filename is used for diagnostics, the
// profile name and relative texture paths.
func Parse(ctx context.Context, src []byte, filename string) (*Profile, error) {
	logger := ctxlog.FromContext(ctx).With("profile", filename)

	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("profile: parse %s: %w", filename, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("profile: %s: only native HCL syntax is supported", filename)
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{"pi": cty.NumberFloatVal(math.Pi)},
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &root); diags.HasErrors() {
		return nil, fmt.Errorf("profile: decode %s: %w", filename, diags)
	}
	evalCtx.Variables["levels"] = cty.NumberIntVal(int64(root.Levels))

	c := &compiler{
		evalCtx:     evalCtx,
		productions: make(map[string][]*grammar.Production),
	}

	// Declare every production first so calls can refer forward and to themselves.
	var decls []declared
	for _, blk := range body.Blocks {
		if blk.Type != "production" {
			continue
		}
		p := &grammar.Production{Name: blk.Labels[0]}
		c.productions[p.Name] = append(c.productions[p.Name], p)
		c.order = append(c.order, p.Name)
		decls = append(decls, declared{production: p, body: blk.Body})
	}
	for _, d := range decls {
		list, err := c.instructions(d.body)
		if err != nil {
			return nil, fmt.Errorf("profile: %s: production %q: %w", filename, d.production.Name, err)
		}
		d.production.Instructions = list
	}

	rootProds, ok := c.productions[root.Root]
	if !ok {
		return nil, fmt.Errorf("profile: %s: root %w", filename, c.unknownProduction(root.Root))
	}

	gen := grammar.NewGenerator(rootProds[0], root.Levels)
	if root.BoneLevels != nil {
		gen.BoneLevels = *root.BoneLevels
	}
	if root.TextureHeight != nil {
		gen.TextureHeight = *root.TextureHeight
	}
	gen.TextureHeightVariation = root.TextureHeightVariation
	if len(root.LeafAxis) > 0 {
		if len(root.LeafAxis) != 3 {
			return nil, fmt.Errorf("profile: %s: leaf_axis needs 3 components, got %d", filename, len(root.LeafAxis))
		}
		axis := mathutil.Vec3{root.LeafAxis[0], root.LeafAxis[1], root.LeafAxis[2]}.Normalize()
		gen.LeafAxis = &axis
	}
	for _, u := range root.Underground {
		limit := crayon.DefaultUndergroundLimit
		if u.LowerBound != nil {
			limit = *u.LowerBound
		}
		gen.Constraints = append(gen.Constraints, crayon.NewUnderground(limit))
	}
	if err := gen.Validate(); err != nil {
		return nil, fmt.Errorf("profile: %s: %w", filename, err)
	}

	dir := filepath.Dir(filename)
	p := &Profile{
		Name:         strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)),
		Path:         filename,
		Generator:    gen,
		TrunkTexture: resolvePath(dir, root.TrunkTexture),
		LeafTexture:  resolvePath(dir, root.LeafTexture),
	}

	logger.Debug("Profile compiled.", "productions", len(decls), "root", root.Root, "levels", root.Levels, "constraints", len(gen.Constraints))
	return p, nil
}

type declared struct {
	production *grammar.Production
	body       *hclsyntax.Body
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// LoadAll loads every profile found under paths. Directories are walked for
// .hcl files; missing paths are skipped.
func LoadAll(ctx context.Context, paths ...string) ([]*Profile, error) {
	files, err := findProfileFiles(paths)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Discovered profile files.", "count", len(files))

	profiles := make([]*Profile, 0, len(files))
	for _, f := range files {
		p, err := Load(ctx, f)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func findProfileFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("profile: stat %s: %w", path, err)
		}
		if !info.IsDir() {
			if filepath.Ext(path) == Extension {
				add(path)
			}
			continue
		}
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(p) == Extension {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("profile: walk %s: %w", path, err)
		}
	}
	return files, nil
}
