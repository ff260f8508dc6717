package domain

import (
	"sort"
	"strconv"
	"strings"
)

const topValueCount = 3

// Profile computes a fresh per-column summary of tabular data.
//
// A cell is null when it is empty or whitespace-only. A column is numeric
// when it has at least one non-null value and every non-null value parses
// as a float; otherwise it is text.
func Profile(data *TableData) []ColumnProfile {
	profiles := make([]ColumnProfile, 0, len(data.Columns))
	rowCount := len(data.Rows)

	for idx, name := range data.Columns {
		values := make([]string, 0, rowCount)
		nulls := 0
		for _, row := range data.Rows {
			var cell string
			if idx < len(row) {
				cell = row[idx]
			}
			if strings.TrimSpace(cell) == "" {
				nulls++
				continue
			}
			values = append(values, cell)
		}

		profile := ColumnProfile{
			Name:          name,
			NullCount:     nulls,
			DistinctCount: distinct(values),
		}
		if rowCount > 0 {
			profile.NullPercentage = float64(nulls) / float64(rowCount) * 100
		}

		if numbers, ok := asNumbers(values); ok {
			profile.Kind = ColumnNumeric
			profile.Numeric = numericStats(numbers)
		} else {
			profile.Kind = ColumnText
			profile.TopValues = topValues(values, topValueCount)
		}

		profiles = append(profiles, profile)
	}

	return profiles
}

func distinct(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func asNumbers(values []string) ([]float64, bool) {
	if len(values) == 0 {
		return nil, false
	}
	numbers := make([]float64, 0, len(values))
	for _, v := range values {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, false
		}
		numbers = append(numbers, f)
	}
	return numbers, true
}

func numericStats(numbers []float64) *NumericStats {
	stats := &NumericStats{Min: numbers[0], Max: numbers[0]}
	sum := 0.0
	for _, n := range numbers {
		if n < stats.Min {
			stats.Min = n
		}
		if n > stats.Max {
			stats.Max = n
		}
		sum += n
	}
	stats.Mean = sum / float64(len(numbers))
	return stats
}

func topValues(values []string, limit int) []ValueCount {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	ranked := make([]ValueCount, 0, len(counts))
	for value, count := range counts {
		ranked = append(ranked, ValueCount{Value: value, Count: count})
	}
	// Ties break lexicographically to keep the output stable.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Value < ranked[j].Value
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
