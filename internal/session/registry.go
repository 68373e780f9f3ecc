package session

import "reflect"

// registry holds the configuration fragments registered per type, in
// registration order.
type registry struct {
	byType map[reflect.Type][]Configurator
}

func newRegistry() *registry {
	return &registry{byType: make(map[reflect.Type][]Configurator)}
}

func (r *registry) add(c Configurator) {
	t := c.ConfigType()
	r.byType[t] = append(r.byType[t], c)
}

// ordered returns the fragments for t in merge order: all marker fragments
// in registration order, then all property fragments in registration order.
func (r *registry) ordered(t reflect.Type) []Configurator {
	all := r.byType[t]
	out := make([]Configurator, 0, len(all))
	for _, origin := range []Origin{OriginMarker, OriginProperties} {
		for _, c := range all {
			if c.Origin() == origin {
				out = append(out, c)
			}
		}
	}
	return out
}

func (r *registry) count(t reflect.Type) int {
	return len(r.byType[t])
}
