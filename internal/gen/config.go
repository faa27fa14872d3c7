package gen

import "time"

// RuntimePackage is the import path of the metamodel runtime.
const RuntimePackage = "github.com/Ftibw/mongo-modelgen/metamodel"

// Tool is the generator name written into generated markers.
const Tool = "modelgen"

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// AddGeneratedMarker writes the generated marker on metamodel units.
	// Projection units always carry it.
	AddGeneratedMarker bool
	// AddGenerationDate adds the generation time to the marker.
	AddGenerationDate bool
	// Debug logs every unit and writes unformatted sources next to units
	// that fail to format.
	Debug bool
	// Now returns the generation time.
	Now func() time.Time
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		AddGeneratedMarker: true,
		Now:                time.Now,
	}
}

// Marker returns the generated marker line.
func (c GeneratorConfig) Marker() string {
	if !c.AddGenerationDate {
		return "// Code generated by " + Tool + ". DO NOT EDIT."
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	return "// Code generated by " + Tool + " on " + now().Format("2006-01-02T15:04:05.000Z07:00") + ". DO NOT EDIT."
}
