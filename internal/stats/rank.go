package stats

import "sort"

// Leaderboard sort keys accepted by the API's sort_by parameter.
const (
	SortByAccuracy = "accuracy"
	SortByMade     = "made"
	SortByPlanned  = "planned"
)

// DefaultLeaderboardLimit caps the number of rows returned when the
// caller does not ask for fewer.
const DefaultLeaderboardLimit = 100

// LeaderboardRow is one ranked user. The field names match what the
// mobile client renders.
type LeaderboardRow struct {
	UserID          uint64 `json:"UserID"`
	FullName        string `json:"FullName"`
	TotalMade       int64  `json:"TotalMade"`
	TotalPlanned    int64  `json:"TotalPlanned"`
	AccuracyPercent string `json:"AccuracyPercent"`
}

// ValidSortKey reports whether key is one of the accepted sort keys.
func ValidSortKey(key string) bool {
	return key == SortByAccuracy || key == SortByMade || key == SortByPlanned
}

// Rank orders rows descending by the requested key with ties broken
// by TotalMade descending and then user ID ascending, drops users
// with no planned shots, truncates to limit and fills in the
// formatted accuracy. The input slice is not modified.
func Rank(rows []LeaderboardRow, sortKey string, limit int) []LeaderboardRow {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	ranked := make([]LeaderboardRow, 0, len(rows))
	for _, r := range rows {
		if r.TotalPlanned <= 0 {
			continue
		}
		r.AccuracyPercent = Percent2(r.TotalMade, r.TotalPlanned)
		ranked = append(ranked, r)
	}

	key := func(r LeaderboardRow) float64 {
		switch sortKey {
		case SortByMade:
			return float64(r.TotalMade)
		case SortByPlanned:
			return float64(r.TotalPlanned)
		default: // accuracy
			return float64(r.TotalMade) / float64(r.TotalPlanned)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		ki, kj := key(ranked[i]), key(ranked[j])
		if ki != kj {
			return ki > kj
		}
		if ranked[i].TotalMade != ranked[j].TotalMade {
			return ranked[i].TotalMade > ranked[j].TotalMade
		}
		return ranked[i].UserID < ranked[j].UserID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
