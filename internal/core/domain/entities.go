package domain

// KnownEntity is a labelled address from a static table.
type KnownEntity struct {
	Address string
	Label   string
}

// LabelTable is an ordered address to label mapping. Order matters: discovery
// seeds are taken from the front of the table.
type LabelTable []KnownEntity

// Lookup returns the label of address, compared case-insensitively.
func (t LabelTable) Lookup(address string) (string, bool) {
	address = NormalizeAddress(address)
	for _, e := range t {
		if NormalizeAddress(e.Address) == address {
			return e.Label, true
		}
	}
	return "", false
}

// Contains reports whether address is in the table.
func (t LabelTable) Contains(address string) bool {
	_, ok := t.Lookup(address)
	return ok
}

// Addresses returns the lowercase addresses in table order.
func (t LabelTable) Addresses() []string {
	out := make([]string, 0, len(t))
	for _, e := range t {
		out = append(out, NormalizeAddress(e.Address))
	}
	return out
}
