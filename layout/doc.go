// Package layout rewrites the Report/Layout member of a Power BI package.
//
// The member is UTF-16LE JSON. Each visual container carries its own
// configuration as a JSON document serialized into a string field, so the
// rewrite parses those strings individually: pivotTable and tableEx visuals
// are switched to a custom visual, their projection roles are renamed, and
// the custom visual is declared in the root publicCustomVisuals list.
//
// Documents are held in an order-preserving tree (Object) and written back
// compactly, so untouched content keeps its key order and number literals.
package layout
