package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dvloznov/commerce-insights/internal/dataset"
)

// Engine binds the immutable snapshot and its date anchor. It holds no
// other state: every operation is idempotent and referentially
// transparent, so two calls with the same parameters produce
// byte-identical envelopes regardless of the wall clock.
type Engine struct {
	snap   *dataset.Snapshot
	anchor dataset.Anchor
}

// New creates an engine over the given snapshot.
func New(snap *dataset.Snapshot) *Engine {
	return &Engine{snap: snap, anchor: snap.Anchor()}
}

// Anchor exposes the dataset-derived date context.
func (e *Engine) Anchor() dataset.Anchor {
	return e.anchor
}

// meta builds the metadata block shared by all success payloads.
func (e *Engine) meta(start, end time.Time, filters map[string]string, records int) Meta {
	if filters == nil {
		filters = map[string]string{}
	}
	return Meta{
		DateRangeStart: start.Format(dataset.DateFormat),
		DateRangeEnd:   end.Format(dataset.DateFormat),
		FiltersApplied: filters,
		RecordCount:    records,
		DataAsOf:       e.anchor.DataEnd.Format(dataset.DateFormat),
	}
}

// Monetary values round to 2 decimals and percentages to 1, always at
// the point of output, never during accumulation.

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// money formats a currency amount for human summaries, e.g. $12,345.67.
func money(v float64) string {
	neg := v < 0
	s := fmt.Sprintf("%.2f", math.Abs(v))
	dot := strings.Index(s, ".")
	whole, frac := s[:dot], s[dot:]
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-$" + b.String() + frac
	}
	return "$" + b.String() + frac
}

// title capitalizes the first letter of a dimension value for summaries.
func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// sortByRevenueDesc orders aggregate rows by a revenue-like value
// descending. Ties break by key ascending so output is deterministic;
// callers must not rely on tie order.
func sortByRevenueDesc(keys []string, value func(string) float64) {
	sort.Slice(keys, func(i, j int) bool {
		vi, vj := value(keys[i]), value(keys[j])
		if vi != vj {
			return vi > vj
		}
		return keys[i] < keys[j]
	})
}

// sortByCountDesc orders aggregate rows by an integer count descending
// with the same key-ascending tie rule as sortByRevenueDesc.
func sortByCountDesc(keys []string, value func(string) int) {
	sort.Slice(keys, func(i, j int) bool {
		vi, vj := value(keys[i]), value(keys[j])
		if vi != vj {
			return vi > vj
		}
		return keys[i] < keys[j]
	})
}

// sortedKeys returns the map's keys in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
