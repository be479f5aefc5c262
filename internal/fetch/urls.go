package fetch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentFetches bounds parallel posting downloads.
const maxConcurrentFetches = 4

// JobTexts fetches several posting URLs concurrently. Output order matches
// the input order; the first failure cancels the remaining fetches.
func JobTexts(ctx context.Context, urls []string, opts *Options) ([]string, error) {
	texts := make([]string, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i, urlStr := range urls {
		g.Go(func() error {
			text, err := JobText(gctx, urlStr, opts)
			if err != nil {
				return err
			}
			texts[i] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return texts, nil
}
