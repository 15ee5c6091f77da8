package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"ltree-renderer/internal/batch"
	"ltree-renderer/internal/config"
	"ltree-renderer/internal/profile"
	"ltree-renderer/internal/style"
)

var (
	batchSeeds    int
	batchBaseSeed int64
	batchWorkers  int
	batchOutput   string
)

var batchCmd = &cobra.Command{
	Use:   "batch [profile-or-dir...]",
	Short: "Render every profile for a range of seeds",
	Long: `Batch loads every .hcl profile under the given paths (default: the
configured profile directory) and renders seeds base..base+n-1 of each to
<output>/<profile>/<seed>.webp. A manifest.json describing the run is
written next to the images.`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().IntVar(&batchSeeds, "seeds", 0, "Seeds per profile (default: 8)")
	batchCmd.Flags().Int64Var(&batchBaseSeed, "base-seed", 0, "First seed (default: 1)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "Number of worker goroutines (default: NumCPU)")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "Output directory (default: renders)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c := cfg
	c.Resolve(config.Flags{
		OutputDir: batchOutput,
		Seeds:     batchSeeds,
		BaseSeed:  batchBaseSeed,
		Workers:   batchWorkers,
	})

	paths := args
	if len(paths) == 0 {
		paths = []string{c.ProfileDir}
	}
	profiles, err := profile.LoadAll(ctx, paths...)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		style.Fprintf(cmd.OutOrStdout(), style.WarningPrefix, "No profiles found in %v.", paths)
		return nil
	}

	var dirs []string
	for _, p := range profiles {
		dirs = append(dirs, filepath.Dir(p.Path))
	}
	jobs := batch.Jobs(profiles, c.Seeds, c.BaseSeed)

	out := cmd.OutOrStdout()
	fmt.Fprint(out, style.KeyValues(
		[2]string{"profiles", fmt.Sprint(len(profiles))},
		[2]string{"trees", fmt.Sprint(len(jobs))},
		[2]string{"workers", fmt.Sprint(c.Workers)},
		[2]string{"output", c.OutputDir},
	))

	start := time.Now()
	results := batch.Run(ctx, batch.Config{
		OutputDir: c.OutputDir,
		Options:   renderOptions(c, dirs...),
		Workers:   c.Workers,
	}, jobs)

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}

	manifestPath := filepath.Join(c.OutputDir, batch.ManifestName)
	manifest := batch.NewManifest(results)
	if err := batch.WriteManifest(ctx, manifestPath, manifest); err != nil {
		style.Fprintf(out, style.WarningPrefix, "manifest write failed: %v", err)
	}

	if failed > 0 {
		limit := min(failed, 20)
		style.Fprintf(out, style.ErrorPrefix, "Failed (%d):", failed)
		for _, r := range results {
			if r.Success {
				continue
			}
			fmt.Fprintf(out, "  %s seed %d: %s\n", r.Profile, r.Seed, r.Error)
			if limit--; limit == 0 {
				break
			}
		}
		return fmt.Errorf("%d of %d trees failed (run %s)", failed, len(results), manifest.RunID)
	}

	style.Fprintf(out, style.SuccessPrefix, "Rendered %d trees in %.1fs (run %s)",
		len(results), time.Since(start).Seconds(), manifest.RunID)
	return nil
}
