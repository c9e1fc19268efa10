// Package supplier defines the connector contract for supplier inventory
// feeds and turns raw feed rows into records the reconciliation engine can
// consume. Concrete connectors live in subpackages; the registry wires a
// configuration entry to the right one.
package supplier
