package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/docbay-cloud/docbay/internal/db"
	"github.com/docbay-cloud/docbay/internal/domain/search/snippet"
)

// Search runs a paginated FT.SEARCH over the document index.
func (s *Store) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}

	args := []string{q.IndexName, renderClauses(q.Clauses)}

	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}

	if q.WithScores {
		args = append(args, "WITHSCORES")
	}
	if !q.Sort.ByScore && q.Sort.Field != "" {
		dir := "ASC"
		if q.Sort.Desc {
			dir = "DESC"
		}
		args = append(args, "SORTBY", q.Sort.Field, dir)
	}

	args = append(args,
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseSearchResult(raw, q.WithScores)
}

// Count returns the match count via FT.SEARCH with LIMIT 0 0: the same
// predicates as a results query, no sort, no page.
func (s *Store) Count(ctx context.Context, q *db.CountQuery) (int, error) {
	cmd := s.b().Arbitrary("FT.SEARCH").
		Args(q.IndexName, renderClauses(q.Clauses), "LIMIT", "0", "0", "DIALECT", "2").
		Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, &db.Error{Op: db.OpSearch, Err: err}
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

// GroupCount counts matches per distinct value of a field via
// FT.AGGREGATE GROUPBY/REDUCE COUNT, most frequent first.
func (s *Store) GroupCount(ctx context.Context, q *db.GroupCountQuery) ([]db.GroupCountEntry, error) {
	if q.GroupField == "" {
		return nil, fmt.Errorf("group field is required")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}

	cmd := s.b().Arbitrary("FT.AGGREGATE").
		Args(q.IndexName, renderClauses(q.Clauses),
			"GROUPBY", "1", "@"+q.GroupField,
			"REDUCE", "COUNT", "0", "AS", "count",
			"SORTBY", "2", "@count", "DESC",
			"LIMIT", "0", strconv.Itoa(limit),
			"DIALECT", "2",
		).
		Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}

	return parseGroupCounts(raw, q.GroupField)
}

// Snippets runs one batched FT.SEARCH with SUMMARIZE+HIGHLIGHT over the
// given clause set and returns marked-up excerpts keyed by the id field.
func (s *Store) Snippets(ctx context.Context, q *db.SnippetQuery) (map[string]string, error) {
	if q.Field == "" || q.IDField == "" {
		return nil, fmt.Errorf("snippet field and id field are required")
	}
	fragLen := q.FragmentLen
	if fragLen <= 0 {
		fragLen = 8
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}

	cmd := s.b().Arbitrary("FT.SEARCH").
		Args(q.IndexName, renderClauses(q.Clauses),
			"RETURN", "2", q.IDField, q.Field,
			"SUMMARIZE", "FIELDS", "1", q.Field,
			"FRAGS", "1", "LEN", strconv.Itoa(fragLen), "SEPARATOR", "…",
			"HIGHLIGHT", "FIELDS", "1", q.Field,
			"TAGS", snippet.OpenMark, snippet.CloseMark,
			"LIMIT", "0", strconv.Itoa(limit),
			"DIALECT", "2",
		).
		Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	res, err := parseSearchResult(raw, false)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(res.Entries))
	for _, e := range res.Entries {
		id := e.Fields[q.IDField]
		if id == "" {
			continue
		}
		if excerpt := e.Fields[q.Field]; excerpt != "" {
			out[id] = excerpt
		}
	}
	return out, nil
}

// --- Result parsing ---

func parseSearchResult(raw []rueidis.RedisMessage, withScores bool) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{Total: 0}, nil
	}

	res := &db.SearchResult{Total: int(total)}

	if withScores {
		// 3-stride: [total, key1, score1, fields1, ...]
		for i := 1; i+2 < len(raw); i += 3 {
			key, err := raw[i].ToString()
			if err != nil {
				continue
			}
			scoreStr, err := raw[i+1].ToString()
			if err != nil {
				continue
			}
			score, err := strconv.ParseFloat(scoreStr, 64)
			if err != nil {
				continue
			}
			fields, err := raw[i+2].ToArray()
			if err != nil {
				continue
			}
			res.Entries = append(res.Entries, db.SearchEntry{
				Key:    key,
				Score:  score,
				Fields: parseFieldPairs(fields),
			})
		}
		return res, nil
	}

	// 2-stride: [total, key1, fields1, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}
		res.Entries = append(res.Entries, db.SearchEntry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		})
	}
	return res, nil
}

// parseGroupCounts reads an FT.AGGREGATE reply: [total, row1, row2, ...]
// where each row is a flat field-value pair array.
func parseGroupCounts(raw []rueidis.RedisMessage, groupField string) ([]db.GroupCountEntry, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	entries := make([]db.GroupCountEntry, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row, err := raw[i].ToArray()
		if err != nil {
			continue
		}
		fields := parseFieldPairs(row)

		value, ok := fields[groupField]
		if !ok {
			continue
		}
		count, err := strconv.Atoi(fields["count"])
		if err != nil {
			continue
		}
		entries = append(entries, db.GroupCountEntry{Value: value, Count: count})
	}
	return entries, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}
