package catalog

// Location pairs the exact backend key with its derived label.
type Location struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Catalog is the ordered, immutable list of valid locations.
type Catalog struct {
	entries []Location
	keys    map[string]struct{}
}

// New builds a catalog from raw keys, preserving order and bytes.
func New(rawKeys []string) *Catalog {
	c := &Catalog{
		entries: make([]Location, 0, len(rawKeys)),
		keys:    make(map[string]struct{}, len(rawKeys)),
	}
	for _, raw := range rawKeys {
		c.entries = append(c.entries, Location{Key: raw, Label: Label(raw)})
		c.keys[raw] = struct{}{}
	}
	return c
}

// Len returns the number of entries, duplicates included.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns a copy of the locations in backend order.
func (c *Catalog) Entries() []Location {
	if c == nil {
		return nil
	}
	out := make([]Location, len(c.entries))
	copy(out, c.entries)
	return out
}

// Contains reports whether key matches a raw key byte for byte.
func (c *Catalog) Contains(key string) bool {
	if c == nil {
		return false
	}
	_, ok := c.keys[key]
	return ok
}

// Lookup returns the location for key.
func (c *Catalog) Lookup(key string) (Location, bool) {
	if !c.Contains(key) {
		return Location{}, false
	}
	return Location{Key: key, Label: Label(key)}, true
}
