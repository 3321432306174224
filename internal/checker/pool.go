package checker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/noah-ing/pricehawk/internal/model"
)

type checkJob struct {
	index     int
	candidate model.CheckCandidate
}

// CheckAll fetches current prices for all candidates on a bounded worker
// pool. The result slice is positional: results[i] belongs to candidates[i],
// and a nil entry means the check failed.
func (c *Client) CheckAll(ctx context.Context, candidates []model.CheckCandidate) []*model.PriceResult {
	results := make([]*model.PriceResult, len(candidates))
	if len(candidates) == 0 {
		return results
	}

	workers := c.concurrency
	if workers > len(candidates) {
		workers = len(candidates)
	}

	jobs := make(chan checkJob)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for job := range jobs {
				result, err := c.Check(ctx, job.candidate)
				if err != nil {
					slog.Warn("Price check failed",
						"worker_id", workerID,
						"product_id", job.candidate.ProductID,
						"source", job.candidate.Source,
						"error", err.Error(),
					)
					continue
				}
				results[job.index] = result
			}
		}(i)
	}

	for i, candidate := range candidates {
		select {
		case jobs <- checkJob{index: i, candidate: candidate}:
		case <-ctx.Done():
			// Remaining slots stay nil and count as failures upstream
			close(jobs)
			wg.Wait()
			return results
		}
	}

	close(jobs)
	wg.Wait()

	return results
}
