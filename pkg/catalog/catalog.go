// Package catalog loads region catalog rows from YAML or CSV documents kept
// on disk or in S3. It only reads; writing the rows is up to the backend.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/gridcrew/mapathon/pkg/proto"
	"gopkg.in/yaml.v3"
)

// Format is a catalog document format.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ErrUnknownFormat is returned for sources that are neither YAML nor CSV.
var ErrUnknownFormat = errors.New("unknown catalog format")

// FormatOf guesses the format of a source from its extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// document is the YAML layout:
//
//	regions:
//	  - name: Bavaria
//	    code: DE-BY
//	    classification: state
//	    active: true
type document struct {
	Regions []entry `yaml:"regions"`
}

type entry struct {
	Name           string `yaml:"name"`
	Code           string `yaml:"code"`
	Classification string `yaml:"classification"`
	Active         *bool  `yaml:"active"`
}

// Parse reads catalog rows from r. Rows without an active flag are active.
func Parse(r io.Reader, f Format) ([]proto.Region, error) {
	switch f {
	case FormatYAML:
		return parseYAML(r)
	case FormatCSV:
		return parseCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

func parseYAML(r io.Reader) ([]proto.Region, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	regions := make([]proto.Region, 0, len(doc.Regions))
	for _, e := range doc.Regions {
		active := true
		if e.Active != nil {
			active = *e.Active
		}
		regions = append(regions, proto.Region{
			Name:           strings.TrimSpace(e.Name),
			Code:           strings.TrimSpace(e.Code),
			Classification: strings.TrimSpace(e.Classification),
			Active:         active,
		})
	}
	return regions, nil
}

// parseCSV reads a CSV document with a header row. The name and code
// columns are required; classification and active are optional.
func parseCSV(r io.Reader) ([]proto.Region, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []proto.Region{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "code"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("catalog header is missing the %q column", required)
		}
	}

	field := func(rec []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	regions := []proto.Region{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}

		active := true
		if v := field(rec, "active"); v != "" {
			active, err = strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid active flag %q", line, v)
			}
		}
		regions = append(regions, proto.Region{
			Name:           field(rec, "name"),
			Code:           field(rec, "code"),
			Classification: field(rec, "classification"),
			Active:         active,
		})
	}
	return regions, nil
}
