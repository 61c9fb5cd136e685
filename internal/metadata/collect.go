package metadata

import (
	"context"
	"runtime"
	"sync"
)

// Collect reads the tags of every path using a pool of workers. Reports are
// returned in the order of paths. A cancelled context stops the producer;
// paths that were never read carry the context error.
func Collect(ctx context.Context, r *Reader, paths []string, workers int) []Report {
	if ctx == nil {
		ctx = context.Background()
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	reports := make([]Report, len(paths))
	for i, p := range paths {
		reports[i] = Report{Path: p, Err: context.Canceled}
	}

	jobs := make(chan Job)
	results := make(chan result)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for job := range jobs {
				if ctx.Err() != nil {
					return
				}
				kind, tags, err := r.read(job.Path)
				results <- result{index: job.Index, report: Report{Path: job.Path, Kind: kind, Tags: tags, Err: err}}
			}
		}()
	}

	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for res := range results {
			reports[res.index] = res.report
		}
	}()

	go func() {
		defer close(jobs)
		for i, p := range paths {
			select {
			case jobs <- Job{Index: i, Path: p}:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	close(results)
	<-collectorDone

	if err := ctx.Err(); err != nil {
		for i := range reports {
			if reports[i].Err == context.Canceled && reports[i].Tags == nil {
				reports[i].Err = err
			}
		}
	}

	return reports
}

type result struct {
	index  int
	report Report
}
