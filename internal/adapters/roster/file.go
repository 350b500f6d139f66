package roster

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/okian/muster/internal/domain/personnel"
)

const rosterFilePermission = 0o600

// FileProvider reads a roster from a JSON or YAML file holding a list of
// wire records. The file is re-read on every fetch.
type FileProvider struct {
	path string
}

// NewFileProvider creates a provider for path. The format is chosen by
// extension: .json, .yaml or .yml.
func NewFileProvider(path string) (*FileProvider, error) {
	if _, err := formatOf(path); err != nil {
		return nil, err
	}
	return &FileProvider{path: path}, nil
}

// Name implements Provider.
func (p *FileProvider) Name() string { return SourceFile }

// Path returns the file the provider reads.
func (p *FileProvider) Path() string { return p.path }

// FetchRoster implements Provider.
func (p *FileProvider) FetchRoster(ctx context.Context) (personnel.Roster, error) {
	start := time.Now()
	roster, err := p.fetch(ctx)
	observe(SourceFile, start, roster, err)
	return roster, err
}

func (p *FileProvider) fetch(ctx context.Context) (personnel.Roster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}
	return DecodeFile(p.path, data)
}

// DecodeFile parses data as the format implied by name's extension and
// validates the resulting roster.
func DecodeFile(name string, data []byte) (personnel.Roster, error) {
	format, err := formatOf(name)
	if err != nil {
		return nil, err
	}
	var wire []personnel.WireRecord
	switch format {
	case "json":
		err = json.Unmarshal(data, &wire)
	case "yaml":
		err = yaml.Unmarshal(data, &wire)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s roster %s: %w", format, filepath.Base(name), err)
	}
	return personnel.DecodeRoster(wire)
}

// WriteFile stores roster at path in the format implied by its extension.
func WriteFile(path string, roster personnel.Roster) error {
	format, err := formatOf(path)
	if err != nil {
		return err
	}
	wire := personnel.EncodeRoster(roster)
	var data []byte
	switch format {
	case "json":
		data, err = json.MarshalIndent(wire, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(wire)
	}
	if err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}
	if err := os.WriteFile(path, data, rosterFilePermission); err != nil {
		return fmt.Errorf("write roster file: %w", err)
	}
	return nil
}

func formatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
