package search

import (
	"context"
	"strings"

	"github.com/docbay-cloud/docbay/internal/domain/search/result"
	"github.com/docbay-cloud/docbay/internal/domain/search/snippet"
	"github.com/docbay-cloud/docbay/internal/metrics"
)

// attachSnippets fills each result's snippet from the best available
// source: the store's highlighted body excerpt, else an excerpt around
// the first term occurrence in the summary, else the file's name and
// path with literal matches marked. Summaries for the fallback come in
// one batched read covering only the documents the body pass missed.
func (s *Service) attachSnippets(
	ctx context.Context, fullText string,
	docs []result.Document, body map[string]string,
) error {
	var missing []string
	for _, d := range docs {
		if body[d.ID] == "" {
			missing = append(missing, d.ID)
		}
	}

	summaries := map[string]string{}
	if len(missing) > 0 {
		var err error
		summaries, err = s.docs.SummariesForDocuments(ctx, missing)
		if err != nil {
			return err
		}
	}

	terms := strings.Fields(fullText)
	for i := range docs {
		d := &docs[i]

		if excerpt := body[d.ID]; excerpt != "" {
			d.Snippet = &excerpt
			metrics.SnippetSourceTotal.WithLabelValues("body").Inc()
			continue
		}
		if excerpt := snippet.Excerpt(summaries[d.ID], terms, snippet.MaxExcerptLen); excerpt != "" {
			d.Snippet = &excerpt
			metrics.SnippetSourceTotal.WithLabelValues("summary").Inc()
			continue
		}
		fallback := snippet.MarkLiteral(d.FolderPath+"/"+d.Filename, fullText)
		d.Snippet = &fallback
		metrics.SnippetSourceTotal.WithLabelValues("filename").Inc()
	}
	return nil
}
