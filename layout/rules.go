package layout

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ReplacementVisual is the custom visual that table and matrix visuals are
// converted to.
const ReplacementVisual = "inforiverAppPremium2B7A5FD2992D434DAE0B149479307B7B"

// Rename maps one projection role onto another.
type Rename struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Duplication copies a projection role under a second name for the listed
// visual types. It fires right after the rename whose From equals Source,
// so renames later in the list can still overwrite Target.
type Duplication struct {
	Source      string   `yaml:"source"`
	Target      string   `yaml:"target"`
	VisualTypes []string `yaml:"visual_types"`
}

// Rules drives the layout rewrite.
type Rules struct {
	ReplacementVisual string      `yaml:"replacement_visual"`
	ReplaceTypes      []string    `yaml:"replace_types"`
	Renames           []Rename    `yaml:"projection_renames"`
	Duplicate         Duplication `yaml:"duplicate"`
}

// DefaultRules returns the pivotTable/tableEx conversion.
func DefaultRules() Rules {
	return Rules{
		ReplacementVisual: ReplacementVisual,
		ReplaceTypes:      []string{"pivotTable", "tableEx"},
		Renames: []Rename{
			{From: "Values", To: "ameasure"},
			{From: "Rows", To: "rows"},
			{From: "Columns", To: "columns"},
		},
		Duplicate: Duplication{
			Source:      "Values",
			Target:      "rows",
			VisualTypes: []string{"tableEx"},
		},
	}
}

// Validate reports the first problem that would make the rules unusable.
func (r Rules) Validate() error {
	if r.ReplacementVisual == "" {
		return fmt.Errorf("%w: replacement_visual is empty", ErrInvalidRules)
	}
	if slices.Contains(r.ReplaceTypes, "") {
		return fmt.Errorf("%w: replace_types contains an empty visual type", ErrInvalidRules)
	}
	for i, rn := range r.Renames {
		if rn.From == "" || rn.To == "" {
			return fmt.Errorf("%w: projection_renames[%d] needs both from and to", ErrInvalidRules, i)
		}
	}
	if (r.Duplicate.Source == "") != (r.Duplicate.Target == "") {
		return fmt.Errorf("%w: duplicate needs both source and target", ErrInvalidRules)
	}
	return nil
}

// ParseRules decodes a YAML rules profile. Fields the profile leaves out
// keep their DefaultRules values; an empty profile yields the defaults.
func ParseRules(data []byte) (Rules, error) {
	rules := DefaultRules()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil && !errors.Is(err, io.EOF) {
		return Rules{}, fmt.Errorf("%w: %w", ErrInvalidRules, err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// LoadRules reads a YAML rules profile from path.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("%w: read %s: %w", ErrInvalidRules, path, err)
	}
	rules, err := ParseRules(data)
	if err != nil {
		return Rules{}, fmt.Errorf("load rules %s: %w", path, err)
	}
	return rules, nil
}
