package archive

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hireloop/interviewd/pkg/models"
)

// SortKey selects the dashboard sort column.
type SortKey string

const (
	SortByName  SortKey = "name"
	SortByScore SortKey = "score"
	SortByDate  SortKey = "date"
)

// ListOptions filters and orders the dashboard view. Query is a
// case-insensitive substring match on the candidate name.
type ListOptions struct {
	Query      string
	Sort       SortKey
	Descending bool
}

// View is the derived, recomputed-on-demand dashboard projection. Stats cover
// the whole archive; Items reflect the filter and sort.
type View struct {
	Total        int                      `json:"total"`
	AverageScore int                      `json:"averageScore"`
	Items        []models.CandidateRecord `json:"items"`
}

// List recomputes the dashboard view from the archive. Ordering is
// deterministic for a fixed record set: the chosen key first, completion date
// ascending on ties, insertion order as the final tie-break.
func (s *Service) List(ctx context.Context, opts ListOptions) (*View, error) {
	if opts.Sort == "" {
		opts.Sort = SortByScore
	}
	switch opts.Sort {
	case SortByName, SortByScore, SortByDate:
	default:
		return nil, fmt.Errorf("unknown sort key %q", opts.Sort)
	}

	all, err := s.repo.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("archive list: %w", err)
	}

	view := &View{Total: len(all), Items: []models.CandidateRecord{}}
	if len(all) > 0 {
		sum := 0
		for _, r := range all {
			sum += r.Score
		}
		view.AverageScore = sum / len(all)
	}

	q := strings.ToLower(strings.TrimSpace(opts.Query))
	for _, r := range all {
		if q != "" {
			name := ""
			if r.Candidate.Name != nil {
				name = *r.Candidate.Name
			}
			if !strings.Contains(strings.ToLower(name), q) {
				continue
			}
		}
		view.Items = append(view.Items, r)
	}

	items := view.Items
	sort.SliceStable(items, func(i, j int) bool {
		if c := compareKey(items[i], items[j], opts.Sort); c != 0 {
			if opts.Descending {
				return c > 0
			}
			return c < 0
		}
		// ties: completion date ascending, then insertion order
		if opts.Sort != SortByDate {
			if c := strings.Compare(items[i].CompletedDate, items[j].CompletedDate); c != 0 {
				return c < 0
			}
		}
		return items[i].Position < items[j].Position
	})

	return view, nil
}

// compareKey orders two records on the chosen column; completion dates are
// RFC 3339 UTC so string order is chronological order.
func compareKey(a, b models.CandidateRecord, key SortKey) int {
	switch key {
	case SortByScore:
		switch {
		case a.Score < b.Score:
			return -1
		case a.Score > b.Score:
			return 1
		}
		return 0
	case SortByDate:
		return strings.Compare(a.CompletedDate, b.CompletedDate)
	default:
		an, bn := "", ""
		if a.Candidate.Name != nil {
			an = *a.Candidate.Name
		}
		if b.Candidate.Name != nil {
			bn = *b.Candidate.Name
		}
		return strings.Compare(strings.ToLower(an), strings.ToLower(bn))
	}
}
