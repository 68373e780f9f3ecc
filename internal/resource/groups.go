package resource

// Groups maps a resource group name (e.g. "openshift") to the ordered
// resources handlers appended to it. Group order is first-write order.
type Groups struct {
	names []string
	items map[string][]*Resource
}

// NewGroups returns an empty group map.
func NewGroups() *Groups {
	return &Groups{items: make(map[string][]*Resource)}
}

// Add appends resources to the named group, creating it if needed.
func (g *Groups) Add(group string, resources ...*Resource) {
	if _, ok := g.items[group]; !ok {
		g.names = append(g.names, group)
		g.items[group] = nil
	}
	g.items[group] = append(g.items[group], resources...)
}

// Get returns a copy of the resources in a group. An absent group yields
// an empty, non-nil slice.
func (g *Groups) Get(group string) []*Resource {
	items := g.items[group]
	out := make([]*Resource, len(items))
	copy(out, items)
	return out
}

// Has reports whether any handler wrote into the group.
func (g *Groups) Has(group string) bool {
	_, ok := g.items[group]
	return ok
}

// Names returns group names in the order they were first written.
func (g *Groups) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Len returns the total number of resources across all groups.
func (g *Groups) Len() int {
	n := 0
	for _, items := range g.items {
		n += len(items)
	}
	return n
}
