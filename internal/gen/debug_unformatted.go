package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/Ftibw/mongo-modelgen/internal/sink"
)

var importsOptions = &imports.Options{
	Comments:  true,
	TabIndent: true,
	TabWidth:  8,
}

// formatSource runs goimports over src. When that fails, go/format is tried
// so a unit with a stale import still comes out formatted.
func formatSource(filename string, src []byte) ([]byte, error) {
	out, err := imports.Process(filename, src, importsOptions)
	if err == nil {
		return out, nil
	}

	if formatted, ferr := format.Source(src); ferr == nil {
		return formatted, nil
	}

	return nil, fmt.Errorf("formatting %s: %w", filename, err)
}

// debugUnformatted returns the sidecar unit carrying unformatted code next
// to the intended output.
func debugUnformatted(unit sink.Unit, content []byte) sink.Unit {
	unit.Filename = strings.TrimSuffix(unit.Filename, ".go") + ".unformatted.go"
	unit.Content = bytes.Clone(content)

	return unit
}
