// Package batch renders many profile/seed combinations in parallel and
// records the outcome in a manifest.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"ltree-renderer/internal/ctxlog"
	"ltree-renderer/internal/profile"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir string
	Options   Options
	Workers   int
}

// Job is one tree to render.
type Job struct {
	Profile *profile.Profile
	Seed    int64
}

// Jobs expands profiles × seeds, seeds counting up from baseSeed.
func Jobs(profiles []*profile.Profile, seeds int, baseSeed int64) []Job {
	jobs := make([]Job, 0, len(profiles)*seeds)
	for _, p := range profiles {
		for i := 0; i < seeds; i++ {
			jobs = append(jobs, Job{Profile: p, Seed: baseSeed + int64(i)})
		}
	}
	return jobs
}

// Result holds the outcome of processing one job.
type Result struct {
	Profile  string
	Seed     int64
	Image    string // relative to the output directory
	Branches int
	Leaves   int
	Bones    int
	Duration time.Duration
	Success  bool
	Error    string
}

// ImagePath is the output location of a job relative to the output directory.
func ImagePath(profileName string, seed int64) string {
	return filepath.Join(profileName, fmt.Sprintf("%d.webp", seed))
}

// Run processes all jobs using a worker pool. Jobs not yet started when ctx
// is cancelled are reported as failed with the context error.
func Run(ctx context.Context, cfg Config, jobs []Job) []Result {
	logger := ctxlog.FromContext(ctx)
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()
	workers := max(cfg.Workers, 1)

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					logger.Info("Rendering.", "done", p, "total", total, "trees_per_sec", fmt.Sprintf("%.1f", rate))
				}
			}
		}
	}()

	jobChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				if err := ctx.Err(); err != nil {
					results[idx] = failed(jobs[idx], err)
				} else {
					results[idx] = processJob(cfg, jobs[idx])
				}
				processed.Add(1)
				if !results[idx].Success {
					logger.Warn("Tree failed.", "profile", results[idx].Profile, "seed", results[idx].Seed, "error", results[idx].Error)
				}
			}
		}()
	}

	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	logger.Debug("Batch finished.", "jobs", total, "elapsed", time.Since(start))
	return results
}

func failed(job Job, err error) Result {
	return Result{Profile: job.Profile.Name, Seed: job.Seed, Error: err.Error()}
}

func processJob(cfg Config, job Job) Result {
	start := time.Now()
	preview, err := RenderPreview(job.Profile, job.Seed, cfg.Options)
	if err != nil {
		return failed(job, err)
	}

	rel := ImagePath(job.Profile.Name, job.Seed)
	if err := WriteWebP(filepath.Join(cfg.OutputDir, rel), preview.Image); err != nil {
		return failed(job, err)
	}

	skel := preview.Skeleton
	return Result{
		Profile:  job.Profile.Name,
		Seed:     job.Seed,
		Image:    filepath.ToSlash(rel),
		Branches: len(skel.Branches),
		Leaves:   len(skel.Leaves),
		Bones:    len(skel.Bones),
		Duration: time.Since(start),
		Success:  true,
	}
}
