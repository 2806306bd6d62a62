package domain

import "sort"

// The closed vocabularies of the dataset. These are process-wide
// constants describing the known domain, not values derived from the
// loaded data: a dataset that happens to contain no "sports" rows
// still has "sports" as a valid category filter.
var (
	Categories     = newVocabulary("electronics", "clothing", "home", "grocery", "sports")
	Regions        = newVocabulary("north", "south", "east", "west")
	Segments       = newVocabulary("new", "regular", "vip")
	PaymentMethods = newVocabulary("credit_card", "debit_card", "paypal", "apple_pay")
)

// Vocabulary is a fixed set of valid values for one dimension.
type Vocabulary struct {
	members map[string]bool
	sorted  []string
}

func newVocabulary(values ...string) Vocabulary {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	s := make([]string, len(values))
	copy(s, values)
	sort.Strings(s)
	return Vocabulary{members: m, sorted: s}
}

// Contains reports whether v is a member of the vocabulary.
func (vc Vocabulary) Contains(v string) bool {
	return vc.members[v]
}

// Values returns the members in ascending order. The slice is a copy.
func (vc Vocabulary) Values() []string {
	out := make([]string, len(vc.sorted))
	copy(out, vc.sorted)
	return out
}
