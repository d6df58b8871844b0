package relay

import "strings"

// List is a read only list of relay entries.
//
// Order is significant and duplicates are kept: two builders sharing an endpoint
// are two distinct targets.
type List []Entry

// String returns a comma separated string of relay urls.
//
// Implements fmt.Stringer interface
func (l List) String() string {
	return strings.Join(l.ToStringSlice(), ",")
}

// ToStringSlice returns a string slice of relay urls.
func (l List) ToStringSlice() []string {
	relays := make([]string, len(l))
	for i, entry := range l {
		relays[i] = entry.String()
	}

	return relays
}
