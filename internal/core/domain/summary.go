package domain

// SummaryPoint is a categorised insight derived from the transcript.
type SummaryPoint struct {
	// ID is unique within a recording.
	ID string `json:"id"`

	// Category is a free-text grouping label.
	Category string `json:"category"`

	// Text may contain rich formatting.
	Text string `json:"text"`

	// RelatedSegmentIDs cites segments as evidence, in order.
	// It may be empty and may contain ids absent from the transcript.
	RelatedSegmentIDs []string `json:"relatedSegmentIds"`
}

// HasEvidence returns true if the point cites at least one segment.
func (p SummaryPoint) HasEvidence() bool {
	return len(p.RelatedSegmentIDs) > 0
}

// InsightGroup is a category together with its summary points.
type InsightGroup struct {
	Category string
	Points   []SummaryPoint
}

// GroupByCategory groups summary points by category, preserving the
// first-seen order of categories and the input order within each group.
func GroupByCategory(points []SummaryPoint) []InsightGroup {
	groups := make([]InsightGroup, 0)
	index := make(map[string]int)

	for _, p := range points {
		i, ok := index[p.Category]
		if !ok {
			i = len(groups)
			index[p.Category] = i
			groups = append(groups, InsightGroup{Category: p.Category})
		}
		groups[i].Points = append(groups[i].Points, p)
	}

	return groups
}
