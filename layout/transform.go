package layout

import (
	"fmt"
	"slices"
)

// VisualConfig is a visual container's "config" string after an attempted
// parse. Containers whose config is not JSON keep the original string
// untouched.
type VisualConfig struct {
	Parsed any
	Opaque string
	parsed bool
}

// ParseVisualConfig parses s, falling back to an opaque config on error.
func ParseVisualConfig(s string) VisualConfig {
	v, err := Parse(s)
	if err != nil {
		return VisualConfig{Opaque: s}
	}
	return VisualConfig{Parsed: v, parsed: true}
}

// IsParsed reports whether the config was valid JSON.
func (c VisualConfig) IsParsed() bool {
	return c.parsed
}

// String returns the compact encoding of a parsed config, or the original
// text of an opaque one.
func (c VisualConfig) String() string {
	if !c.parsed {
		return c.Opaque
	}
	return Marshal(c.Parsed)
}

// Report summarises what a Transform changed.
type Report struct {
	Containers int
	Converted  int
	Renamed    int
	Duplicated int
	Opaque     int
	Registered bool
}

// Transform rewrites the layout document text according to rules and
// returns the new text. Only a malformed outer document is an error; a
// container whose config does not parse is passed through unchanged.
func Transform(text string, rules Rules) (string, Report, error) {
	var rep Report
	root, err := Parse(text)
	if err != nil {
		return "", rep, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}
	doc, ok := root.(*Object)
	if !ok {
		return "", rep, fmt.Errorf("%w: top-level value is not an object", ErrConfigParse)
	}

	for _, section := range doc.Objects("sections") {
		for _, container := range section.Objects("visualContainers") {
			raw, _ := container.Get("config")
			s, _ := raw.(string)
			if s == "" {
				continue
			}
			rep.Containers++
			cfg := ParseVisualConfig(s)
			if !cfg.IsParsed() {
				rep.Opaque++
				continue
			}
			rewriteVisual(cfg.Parsed, rules, &rep)
			container.Set("config", cfg.String())
		}
	}

	rep.Registered, err = registerVisual(doc, rules.ReplacementVisual)
	if err != nil {
		return "", rep, err
	}
	return Marshal(doc), rep, nil
}

func rewriteVisual(v any, rules Rules, rep *Report) {
	cfg, ok := v.(*Object)
	if !ok {
		return
	}
	visual, ok := cfg.Object("singleVisual")
	if !ok {
		return
	}

	raw, _ := visual.Get("visualType")
	original, _ := raw.(string)
	if slices.Contains(rules.ReplaceTypes, original) {
		visual.Set("visualType", rules.ReplacementVisual)
		rep.Converted++
	}

	projections, ok := visual.Object("projections")
	if !ok {
		return
	}
	dup := rules.Duplicate
	for _, rn := range rules.Renames {
		value, present := projections.Get(rn.From)
		if !present {
			continue
		}
		projections.Rename(rn.From, rn.To)
		rep.Renamed++
		if rn.From == dup.Source && slices.Contains(dup.VisualTypes, original) {
			projections.Set(dup.Target, value)
			rep.Duplicated++
		}
	}
}

// registerVisual appends id to the root's publicCustomVisuals unless it is
// already listed. It reports whether the list changed.
func registerVisual(doc *Object, id string) (bool, error) {
	raw, _ := doc.Get("publicCustomVisuals")
	list, ok := raw.([]any)
	if raw != nil && !ok {
		return false, fmt.Errorf("%w: publicCustomVisuals is %T, want array", ErrConfigParse, raw)
	}
	for _, v := range list {
		if s, _ := v.(string); s == id {
			return false, nil
		}
	}
	if list == nil {
		list = []any{}
	}
	doc.Set("publicCustomVisuals", append(list, id))
	return true, nil
}

// Rewrite decodes a UTF-16LE layout member, transforms it, and encodes the
// result the same way, keeping any byte order mark.
func Rewrite(member []byte, rules Rules) ([]byte, Report, error) {
	text, err := Decode(member)
	if err != nil {
		return nil, Report{}, err
	}
	out, rep, err := Transform(text.Content, rules)
	if err != nil {
		return nil, rep, err
	}
	b, err := Encode(Text{Content: out, BOM: text.BOM})
	return b, rep, err
}
