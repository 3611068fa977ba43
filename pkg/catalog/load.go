// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/instgroup/instgroup/pkg/cueutil"
	"github.com/instgroup/instgroup/pkg/types"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// FormatCUE is the install.cue format.
	FormatCUE Format = "cue"
	// FormatTOML is the install.toml format.
	FormatTOML Format = "toml"
	// FormatYAML is the install.yaml format.
	FormatYAML Format = "yaml"

	// DefaultFileName is the install definition looked up in the working directory.
	DefaultFileName = "install.cue"
)

//go:embed catalog_schema.cue
var catalogSchema []byte

// ErrUnsupportedFormat is the sentinel error wrapped by UnsupportedFormatError.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

type (
	// Format names an install definition file format.
	Format string

	// UnsupportedFormatError is returned for a file extension with no loader.
	UnsupportedFormatError struct {
		Path types.FilesystemPath
	}

	catalogDocument struct {
		Packs []packDocument `json:"packs" toml:"packs" yaml:"packs"`
	}

	packDocument struct {
		Name        string   `json:"name" toml:"name" yaml:"name"`
		Size        int64    `json:"size,omitempty" toml:"size" yaml:"size"`
		Description string   `json:"description,omitempty" toml:"description" yaml:"description"`
		Groups      []string `json:"groups,omitempty" toml:"groups" yaml:"groups"`
		Depends     []string `json:"depends,omitempty" toml:"depends" yaml:"depends"`
		Preselected *bool    `json:"preselected,omitempty" toml:"preselected" yaml:"preselected"`
		Required    bool     `json:"required,omitempty" toml:"required" yaml:"required"`
		OS          []string `json:"os,omitempty" toml:"os" yaml:"os"`
	}
)

// Error implements the error interface.
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported catalog format %q (expected .cue, .toml, .yaml or .yml)", e.Path.Ext())
}

// Unwrap returns ErrUnsupportedFormat for errors.Is() compatibility.
func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// FormatOf maps a file extension to its Format.
func FormatOf(path types.FilesystemPath) (Format, error) {
	switch path.Ext() {
	case ".cue":
		return FormatCUE, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", &UnsupportedFormatError{Path: path}
	}
}

// LoadFile reads an install definition and builds its catalog. The format
// follows the file extension.
func LoadFile(path types.FilesystemPath) (*Catalog, error) {
	if err := path.Validate(); err != nil {
		return nil, err
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	return Parse(data, format, filepath.Base(string(path)))
}

// Parse decodes an install definition in the given format. filename is used
// in error messages only.
func Parse(data []byte, format Format, filename string) (*Catalog, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, filename); err != nil {
		return nil, err
	}

	var doc *catalogDocument
	switch format {
	case FormatCUE:
		result, err := cueutil.ParseAndDecode[catalogDocument](catalogSchema, data, "#Catalog", cueutil.WithFilename(filename))
		if err != nil {
			return nil, err
		}
		doc = result.Value
	case FormatTOML:
		doc = &catalogDocument{}
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(doc); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
	case FormatYAML:
		doc = &catalogDocument{}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	c, err := doc.build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return c, nil
}

func (d *catalogDocument) build() (*Catalog, error) {
	packs := make([]Pack, 0, len(d.Packs))
	for _, pd := range d.Packs {
		groups := make([]GroupName, len(pd.Groups))
		for i, g := range pd.Groups {
			groups[i] = GroupName(g)
		}
		deps := make([]PackName, len(pd.Depends))
		for i, dep := range pd.Depends {
			deps[i] = PackName(dep)
		}
		preselected := true
		if pd.Preselected != nil {
			preselected = *pd.Preselected
		}
		packs = append(packs, Pack{
			Name:         PackName(pd.Name),
			Size:         ByteSize(pd.Size),
			Membership:   InGroups(groups...),
			Dependencies: deps,
			Description:  pd.Description,
			Preselected:  preselected,
			Required:     pd.Required,
			OS:           pd.OS,
		})
	}
	return New(packs...)
}
