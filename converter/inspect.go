package converter

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/dendrascience/pbix-converter/archive"
	"github.com/dendrascience/pbix-converter/layout"
)

// Inspection is a dry run of Convert against a package: what it contains
// and what a conversion would change. Nothing is written.
type Inspection struct {
	Members          []string
	SecurityBindings bool
	LayoutBOM        bool
	Layout           layout.Report
}

// Inspect reads the package at src and reports what Convert would do with
// it under rules.
func Inspect(src string, rules layout.Rules) (Inspection, error) {
	var in Inspection
	members, err := archive.Members(src)
	if err != nil {
		return in, err
	}
	in.Members = members
	in.SecurityBindings = slices.Contains(members, archive.SecurityBindings)

	b, err := archive.ReadMember(src, LayoutMember)
	if errors.Is(err, fs.ErrNotExist) {
		return in, fmt.Errorf("%w: %s", ErrMissingMember, LayoutMember)
	}
	if err != nil {
		return in, err
	}
	text, err := layout.Decode(b)
	if err != nil {
		return in, err
	}
	in.LayoutBOM = text.BOM
	_, in.Layout, err = layout.Transform(text.Content, rules)
	return in, err
}
