//
// Package benchmark holds the static industry reference scores that
// organization results are compared against. Benchmarks are never
// derived from user data.
//
package benchmark

import (
	_ "embed"
	"io/ioutil"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed benchmarks.yaml
var defaultTable []byte

// AreaFallback is shown for an area that has no benchmark of its own.
const AreaFallback = 3.0

type Table struct {
	Areas   map[string]map[string]float64 `yaml:"areas" json:"areas"`
	Themes  map[string]float64            `yaml:"themes" json:"themes"`
	Sources []string                      `yaml:"sources" json:"sources"`
}

// Default returns the table compiled into the binary.
func Default() (*Table, error) {
	return Parse(defaultTable)
}

// LoadFile reads a replacement table from a yaml file.
func LoadFile(path string) (*Table, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read benchmark table")
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Table, error) {
	t := &Table{}
	if err := yaml.Unmarshal(raw, t); err != nil {
		return nil, errors.Wrap(err, "cannot parse benchmark table")
	}
	for theme, areas := range t.Areas {
		for area, v := range areas {
			if v < 0 || v > 5 {
				return nil, errors.Errorf("benchmark %s / %s = %v outside [0,5]", theme, area, v)
			}
		}
	}
	for theme, v := range t.Themes {
		if v < 0 || v > 5 {
			return nil, errors.Errorf("benchmark %s = %v outside [0,5]", theme, v)
		}
	}
	return t, nil
}

// ForTheme is the combined-mode scalar for theme; 0.0 when missing.
func (t *Table) ForTheme(theme string) float64 {
	return t.Themes[theme]
}

// ForAreas is the single-theme area map for theme; empty when missing.
func (t *Table) ForAreas(theme string) map[string]float64 {
	out := map[string]float64{}
	for area, v := range t.Areas[theme] {
		out[area] = v
	}
	return out
}

// ForArea is the benchmark of one area, AreaFallback when missing.
func (t *Table) ForArea(theme, area string) float64 {
	if v, ok := t.Areas[theme][area]; ok {
		return v
	}
	return AreaFallback
}

//
// AreaAverage is the unrounded mean of theme's area benchmarks, or 0
// when the theme has none.
//
func (t *Table) AreaAverage(theme string) float64 {
	areas := t.Areas[theme]
	if len(areas) == 0 {
		return 0
	}
	keys := make([]string, 0, len(areas))
	for k := range areas {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	total := 0.0
	for _, k := range keys {
		total += areas[k]
	}
	return total / float64(len(keys))
}
