package ground

import (
	"runtime"
	"sync"
)

// WorkItem holds one document ready for grounding.
type WorkItem struct {
	Seq   int
	DocID string
	Text  string
	Genes []int
}

// WorkResult holds the pipeline output for a single document.
type WorkResult struct {
	Seq   int
	DocID string
	Out   *DocOutput
}

// ParallelGround grounds documents using a pool of workers. Each worker
// builds its own Pipeline through newPipeline, so alignment caches and
// random state are never shared. Results arrive in completion order; use
// OrderedCollect to consume them in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func ParallelGround(items <-chan WorkItem, workers int, newPipeline func() *Pipeline) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			p := newPipeline()
			for item := range items {
				results <- WorkResult{
					Seq:   item.Seq,
					DocID: item.DocID,
					Out:   p.GroundDocument(item.Text, item.Genes, nil),
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect consumes results and hands them to fn in ascending
// sequence order, holding back any that arrive early until their turn
// comes. It returns once the results channel closes, or with fn's error
// as soon as fn fails.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	held := make(map[int]WorkResult)
	next := 0

	for r := range results {
		held[r.Seq] = r

		for {
			rr, ok := held[next]
			if !ok {
				break
			}
			delete(held, next)
			next++
			if err := fn(rr); err != nil {
				// keep receiving so the workers can finish sending
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
