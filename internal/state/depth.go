package state

// DepthDomain is a depth axis range for chart rendering.
type DepthDomain struct {
	Min float64
	Max float64
}

// MergeDepthDomains combines per-series depth domains into one chart axis.
// Nil entries are ignored; the result is nil when every entry is nil, the
// single non-nil domain when only one exists, and otherwise a domain
// anchored at 0 spanning to the largest max. Min is always normalized to 0
// in the merged case so stacked depth charts share a common surface line.
func MergeDepthDomains(domains []*DepthDomain) *DepthDomain {
	var found []*DepthDomain
	for _, d := range domains {
		if d != nil {
			found = append(found, d)
		}
	}
	switch len(found) {
	case 0:
		return nil
	case 1:
		return found[0]
	}

	max := found[0].Max
	for _, d := range found[1:] {
		if d.Max > max {
			max = d.Max
		}
	}
	return &DepthDomain{Min: 0, Max: max}
}
