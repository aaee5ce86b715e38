package activity

import "sort"

// Rank orders activities deterministically: events before places (reversed
// when the query asks for places first), events by ascending start time,
// places by descending rating, everything tied broken by (source,
// provider_id). Ranking happens after all provider outcomes are collected,
// so completion order never influences the result.
func Rank(acts []Activity, q Query) {
	sort.SliceStable(acts, func(i, j int) bool {
		a, b := acts[i], acts[j]
		if a.Source != b.Source {
			if q.PlacesFirst {
				return a.Source == SourcePlace
			}
			return a.Source == SourceEvent
		}
		if a.Source == SourceEvent {
			switch {
			case a.StartTime == nil && b.StartTime == nil:
				// fall through to tie-break
			case a.StartTime == nil:
				return false
			case b.StartTime == nil:
				return true
			case !a.StartTime.Equal(*b.StartTime):
				return a.StartTime.Before(*b.StartTime)
			}
		} else if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return a.Key() < b.Key()
	})
}

// Truncate caps the ranked list at max entries. max <= 0 means no cap.
func Truncate(acts []Activity, max int) []Activity {
	if max > 0 && len(acts) > max {
		return acts[:max]
	}
	return acts
}
