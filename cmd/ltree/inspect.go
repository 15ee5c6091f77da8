package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"ltree-renderer/internal/grammar"
	"ltree-renderer/internal/profile"
	"ltree-renderer/internal/style"
)

var inspectSeed int64

var inspectCmd = &cobra.Command{
	Use:   "inspect <profile.hcl>",
	Short: "Print statistics of a generated tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Int64Var(&inspectSeed, "seed", 1, "Random seed")
}

func runInspect(cmd *cobra.Command, args []string) error {
	p, err := profile.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	skel, err := p.Generator.Generate(grammar.NewRand(inspectSeed), nil)
	if err != nil {
		return err
	}

	longest, err := skel.GetLongestBranching(make([]float64, len(skel.Branches)))
	if err != nil {
		return err
	}
	levels := make([]int, len(skel.Branches))
	if err := skel.CopyBranchLevelsTo(levels); err != nil {
		return err
	}
	maxLevel := 0
	if len(levels) > 0 {
		maxLevel = slices.Max(levels)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", style.Bold.Render(p.Name), style.Dim.Render(fmt.Sprintf("seed %d", inspectSeed)))
	fmt.Fprint(out, style.KeyValues(
		[2]string{"branches", fmt.Sprint(len(skel.Branches))},
		[2]string{"leaves", fmt.Sprint(len(skel.Leaves))},
		[2]string{"bones", fmt.Sprint(len(skel.Bones))},
		[2]string{"trunk radius", fmt.Sprintf("%.1f", skel.TrunkRadius())},
		[2]string{"longest branching", fmt.Sprintf("%.1f", longest)},
		[2]string{"max branch level", fmt.Sprint(maxLevel)},
		[2]string{"texture height", fmt.Sprintf("%.1f", skel.TextureHeight)},
	))
	return nil
}
