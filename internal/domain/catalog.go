package domain

import "strings"

// StrategyCatalog resolves configuration strategy names to registered
// variants. Resolution never fails: an empty or unrecognized name yields
// the no-op variant, so a misspelled strategy degrades to a plain deploy
// instead of blocking the pipeline.
type StrategyCatalog struct {
	byName   map[string]Strategy
	fallback Strategy
}

// NewStrategyCatalog registers the given strategies by their lowercased
// names. Later registrations win on name collisions.
func NewStrategyCatalog(strategies ...Strategy) *StrategyCatalog {
	c := &StrategyCatalog{
		byName:   make(map[string]Strategy, len(strategies)),
		fallback: NoneStrategy{},
	}
	for _, s := range strategies {
		name := strings.ToLower(s.Name())
		if name == StrategyNone {
			c.fallback = s
			continue
		}
		c.byName[name] = s
	}
	return c
}

// Resolve returns the strategy registered under name, matching
// case-insensitively, or the no-op fallback.
func (c *StrategyCatalog) Resolve(name string) Strategy {
	if s, ok := c.byName[strings.ToLower(name)]; ok {
		return s
	}
	return c.fallback
}

// DefaultStrategyCatalog wires the built-in variants against the given
// collaborators. The diagnostic sink may be nil.
func DefaultStrategyCatalog(gateway ClusterGateway, sources SourceResolver, sink DiagnosticSink) *StrategyCatalog {
	return NewStrategyCatalog(
		&RedBlackStrategy{Gateway: gateway, Diagnostics: sink},
		&HighlanderStrategy{Gateway: gateway, Diagnostics: sink},
		&RollingPushStrategy{Sources: sources},
	)
}
