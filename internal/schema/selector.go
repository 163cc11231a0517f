package schema

// Filter returns the summaries belonging to the given category.
// It is a stable filter: input order is preserved, the input slice is
// never mutated, and every summary matches exactly one of Standard or
// Custom, so the two category sets partition the listing.
func Filter(all []ObjectSummary, c Category) []ObjectSummary {
	if c == CategoryAll {
		out := make([]ObjectSummary, len(all))
		copy(out, all)
		return out
	}

	out := make([]ObjectSummary, 0, len(all))
	for _, s := range all {
		switch c {
		case CategoryStandard:
			if !s.Custom {
				out = append(out, s)
			}
		case CategoryCustom:
			if s.Custom {
				out = append(out, s)
			}
		}
	}
	return out
}

// Names extracts the API names of the given summaries, preserving order.
func Names(objs []ObjectSummary) []string {
	names := make([]string, len(objs))
	for i, o := range objs {
		names[i] = o.Name
	}
	return names
}
