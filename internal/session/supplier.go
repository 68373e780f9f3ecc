package session

import (
	"fmt"
	"reflect"
)

// Origin identifies where a configuration fragment was declared.
type Origin int

const (
	// OriginMarker is a fragment built from a source-level declarative marker.
	OriginMarker Origin = iota
	// OriginProperties is a fragment built from an external property map.
	// Property fragments always apply after marker fragments.
	OriginProperties
)

// String returns the origin name used in logs.
func (o Origin) String() string {
	switch o {
	case OriginMarker:
		return "marker"
	case OriginProperties:
		return "properties"
	default:
		return fmt.Sprintf("origin(%d)", int(o))
	}
}

// Builder sets the fields a fragment declares on a configuration under
// construction. It must leave undeclared fields untouched.
type Builder[C any] func(*C)

// Adapter post-processes a configuration under construction after the
// fragment's builder has run.
type Adapter[C any] func(*C)

// Configurator is the type-erased view of a Supplier held by the session.
type Configurator interface {
	// Origin returns the fragment origin.
	Origin() Origin
	// ConfigType returns the configuration type the fragment builds.
	ConfigType() reflect.Type

	apply(target any)
}

// Supplier is one configuration fragment: an optional builder plus an
// ordered adapter chain, tagged with its origin. Suppliers are immutable;
// Accept returns a copy.
type Supplier[C any] struct {
	origin   Origin
	builder  Builder[C]
	adapters []Adapter[C]
}

// NewMarkerSupplier wraps a marker-derived builder. builder may be nil.
func NewMarkerSupplier[C any](builder Builder[C]) *Supplier[C] {
	return &Supplier[C]{origin: OriginMarker, builder: builder}
}

// NewPropertySupplier wraps a property-map-derived builder. builder may be nil.
func NewPropertySupplier[C any](builder Builder[C]) *Supplier[C] {
	return &Supplier[C]{origin: OriginProperties, builder: builder}
}

// Accept returns a new supplier with adapters appended to the chain.
func (s *Supplier[C]) Accept(adapters ...Adapter[C]) *Supplier[C] {
	chain := make([]Adapter[C], 0, len(s.adapters)+len(adapters))
	chain = append(chain, s.adapters...)
	for _, a := range adapters {
		if a != nil {
			chain = append(chain, a)
		}
	}
	return &Supplier[C]{origin: s.origin, builder: s.builder, adapters: chain}
}

// Origin returns the fragment origin.
func (s *Supplier[C]) Origin() Origin {
	return s.origin
}

// ConfigType returns reflect.Type of C.
func (s *Supplier[C]) ConfigType() reflect.Type {
	return reflect.TypeFor[C]()
}

// Build applies the fragment to a fresh zero configuration.
func (s *Supplier[C]) Build() C {
	var c C
	s.applyTo(&c)
	return c
}

func (s *Supplier[C]) applyTo(c *C) {
	if s.builder != nil {
		s.builder(c)
	}
	for _, a := range s.adapters {
		a(c)
	}
}

func (s *Supplier[C]) apply(target any) {
	s.applyTo(target.(*C))
}
