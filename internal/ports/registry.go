package ports

// UnitFactory creates a configured Unit from an identifier and a loosely
// typed configuration map, typically decoded from YAML. Factories are
// registered per unit type in a UnitRegistry.
type UnitFactory func(id string, config map[string]any) (Unit, error)

// UnitRegistry provides dynamic creation of criterion units by type name.
// It decouples configuration loading from the concrete unit
// implementations and allows callers to register custom criteria.
type UnitRegistry interface {
	// CreateUnit instantiates a unit of the given type with the supplied
	// identifier and configuration. It returns an error for unsupported
	// types, empty identifiers, or invalid configuration.
	CreateUnit(unitType string, id string, config map[string]any) (Unit, error)

	// RegisterUnitFactory registers a factory function for a unit type,
	// extending the registry with custom criteria at runtime.
	RegisterUnitFactory(unitType string, factory UnitFactory) error

	// GetSupportedTypes returns all registered unit type names.
	GetSupportedTypes() []string
}
