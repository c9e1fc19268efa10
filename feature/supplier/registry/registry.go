// Package registry maps supplier configuration entries to concrete
// connector implementations.
package registry

import (
	"fmt"

	"stocksync/feature/supplier"
	"stocksync/feature/supplier/httpapi"
	"stocksync/feature/supplier/portal"
)

// New constructs the connector for a supplier definition based on its type.
func New(def supplier.Definition) (supplier.Connector, error) {
	switch def.Type {
	case "api":
		return httpapi.New(def)
	case "portal":
		return portal.New(def)
	default:
		return nil, fmt.Errorf("supplier %s: unknown type %q", def.Name, def.Type)
	}
}

// Build constructs connectors for every definition, failing fast on the
// first misconfigured entry.
func Build(defs []supplier.Definition) ([]supplier.Connector, error) {
	connectors := make([]supplier.Connector, 0, len(defs))
	for _, def := range defs {
		c, err := New(def)
		if err != nil {
			return nil, err
		}
		connectors = append(connectors, c)
	}
	return connectors, nil
}
