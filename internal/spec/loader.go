package spec

import (
	"context"
	"fmt"
	"os"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a YAML spec file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file %s: %w", path, err)
	}

	return Parse(data)
}

// Load downloads and parses a spec file from any afs URL (file://, mem://, s3://...).
func Load(ctx context.Context, fs afs.Service, URL string) (*File, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download spec file %s: %w", URL, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse spec YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}

	if f.Containers == nil {
		f.Containers = map[string]string{}
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}
