package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ltree-renderer/internal/grammar"
	"ltree-renderer/internal/profile"
	"ltree-renderer/internal/style"
)

var (
	generateSeed int64
	generateOut  string
)

var generateCmd = &cobra.Command{
	Use:   "generate <profile.hcl>",
	Short: "Generate a tree skeleton and write it as JSON",
	Long: `Generate runs a profile's grammar for one seed and writes the resulting
skeleton (branches, leaves, bones) as JSON, for mesh builders outside ltree.

Examples:
  ltree generate profiles/birch.hcl --seed 3 > birch-3.json
  ltree generate profiles/birch.hcl -o birch.json`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 1, "Random seed")
	generateCmd.Flags().StringVarP(&generateOut, "output", "o", "", "Output file (default: stdout)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	p, err := profile.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	skel, err := p.Generator.Generate(grammar.NewRand(generateSeed), nil)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(skel, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal skeleton: %w", err)
	}
	if generateOut == "" {
		_, err = cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(generateOut, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", generateOut, err)
	}
	style.Fprintf(cmd.OutOrStdout(), style.SuccessPrefix, "%s: %d branches, %d leaves, %d bones → %s",
		p.Name, len(skel.Branches), len(skel.Leaves), len(skel.Bones), generateOut)
	return nil
}
