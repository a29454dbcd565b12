package statsapi

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultLibraryConcurrency bounds parallel chapter fetches.
const DefaultLibraryConcurrency = 4

// FetchLibrary lists the textbooks and fetches every book's chapters
// concurrently. Shelves keep the textbook order. The first failure cancels
// the remaining fetches.
func FetchLibrary(ctx context.Context, api API, concurrency int) ([]Shelf, error) {
	books, err := api.Textbooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list textbooks: %w", err)
	}
	if concurrency <= 0 {
		concurrency = DefaultLibraryConcurrency
	}

	shelves := make([]Shelf, len(books))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, b := range books {
		shelves[i].Textbook = b
		g.Go(func() error {
			chapters, err := api.Chapters(gctx, string(b.ID))
			if err != nil {
				return fmt.Errorf("chapters for %q: %w", b.Title, err)
			}
			shelves[i].Chapters = chapters
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return shelves, nil
}
