package layout

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// container returns a visual container whose config field holds cfg as a
// JSON string.
func container(t *testing.T, cfg string) string {
	t.Helper()
	b, err := json.Marshal(cfg)
	require.NoError(t, err)
	return `{"x":10.0,"config":` + string(b) + `}`
}

func layoutWith(containers ...string) string {
	return `{"id":0,"sections":[{"name":"ReportSection","visualContainers":[` + strings.Join(containers, ",") + `]}]}`
}

// configs returns every container config string of a transformed layout.
func configs(t *testing.T, text string) []string {
	t.Helper()
	v, err := Parse(text)
	require.NoError(t, err)
	var out []string
	for _, section := range v.(*Object).Objects("sections") {
		for _, c := range section.Objects("visualContainers") {
			raw, _ := c.Get("config")
			out = append(out, raw.(string))
		}
	}
	return out
}

func TestTransform_PivotTable(t *testing.T) {
	in := layoutWith(container(t, `{"name":"v1","singleVisual":{"visualType":"pivotTable","projections":{"Values":[{"queryRef":"Sum(Sales)"}],"Rows":[{"queryRef":"Region"}]}}}`))

	out, rep, err := Transform(in, DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, []string{
		`{"name":"v1","singleVisual":{"visualType":"` + ReplacementVisual + `","projections":{"ameasure":[{"queryRef":"Sum(Sales)"}],"rows":[{"queryRef":"Region"}]}}}`,
	}, configs(t, out))
	assert.Equal(t, Report{Containers: 1, Converted: 1, Renamed: 2, Registered: true}, rep)
}

func TestTransform_TableExDuplicatesValues(t *testing.T) {
	in := layoutWith(container(t, `{"singleVisual":{"visualType":"tableEx","projections":{"Values":[{"queryRef":"A"},{"queryRef":"B"}]}}}`))

	out, rep, err := Transform(in, DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, []string{
		`{"singleVisual":{"visualType":"` + ReplacementVisual + `","projections":{"ameasure":[{"queryRef":"A"},{"queryRef":"B"}],"rows":[{"queryRef":"A"},{"queryRef":"B"}]}}}`,
	}, configs(t, out))
	assert.Equal(t, 1, rep.Duplicated)
}

func TestTransform_TableExRowsOverwriteDuplicate(t *testing.T) {
	in := layoutWith(container(t, `{"singleVisual":{"visualType":"tableEx","projections":{"Values":[{"queryRef":"V"}],"Rows":[{"queryRef":"R"}]}}}`))

	out, _, err := Transform(in, DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, []string{
		`{"singleVisual":{"visualType":"` + ReplacementVisual + `","projections":{"ameasure":[{"queryRef":"V"}],"rows":[{"queryRef":"R"}]}}}`,
	}, configs(t, out))
}

func TestTransform_RenamesKeepPosition(t *testing.T) {
	in := layoutWith(container(t, `{"singleVisual":{"visualType":"pivotTable","projections":{"Columns":[1],"Values":[2],"Tooltips":[3],"Rows":[4]}}}`))

	out, _, err := Transform(in, DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, []string{
		`{"singleVisual":{"visualType":"` + ReplacementVisual + `","projections":{"columns":[1],"ameasure":[2],"Tooltips":[3],"rows":[4]}}}`,
	}, configs(t, out))
}

func TestTransform_RenameOverwritesExistingTarget(t *testing.T) {
	in := layoutWith(container(t, `{"singleVisual":{"visualType":"pivotTable","projections":{"ameasure":["old"],"Values":["new"]}}}`))

	out, _, err := Transform(in, DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, []string{
		`{"singleVisual":{"visualType":"` + ReplacementVisual + `","projections":{"ameasure":["new"]}}}`,
	}, configs(t, out))
}

func TestTransform_OtherVisualsOnlyRenamed(t *testing.T) {
	in := layoutWith(
		container(t, `{"singleVisual":{"visualType":"barChart","projections":{"Category":[1],"Y":[2]}}}`),
		container(t, `{"singleVisual":{"visualType":"matrix","projections":{"Values":[1]}}}`),
	)

	out, rep, err := Transform(in, DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, []string{
		`{"singleVisual":{"visualType":"barChart","projections":{"Category":[1],"Y":[2]}}}`,
		`{"singleVisual":{"visualType":"matrix","projections":{"ameasure":[1]}}}`,
	}, configs(t, out))
	assert.Equal(t, 0, rep.Converted)
	assert.Equal(t, 0, rep.Duplicated)
}

func TestTransform_InvalidConfigIsolated(t *testing.T) {
	broken := `{"singleVisual": {"visualType": "pivotTable"`
	in := layoutWith(
		container(t, broken),
		container(t, `{ "singleVisual" : { "visualType" : "pivotTable" } }`),
	)

	out, rep, err := Transform(in, DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, []string{
		broken,
		`{"singleVisual":{"visualType":"` + ReplacementVisual + `"}}`,
	}, configs(t, out))
	assert.Equal(t, 1, rep.Opaque)
	assert.Equal(t, 2, rep.Containers)
}

func TestTransform_ExactOutput(t *testing.T) {
	in := "{\"id\":0,\"sections\":[{\"name\":\"S\",\"visualContainers\":[{\"x\":1.50,\"config\":\"{\\\"singleVisual\\\":{\\\"visualType\\\":\\\"tableEx\\\"}}\"},{\"config\":\"\"},{\"y\":2}]}],\"theme\":\"Ünïcødé <&>\"}"

	out, _, err := Transform(in, DefaultRules())
	require.NoError(t, err)

	want := "{\"id\":0,\"sections\":[{\"name\":\"S\",\"visualContainers\":[{\"x\":1.50,\"config\":\"{\\\"singleVisual\\\":{\\\"visualType\\\":\\\"" + ReplacementVisual + "\\\"}}\"},{\"config\":\"\"},{\"y\":2}]}],\"theme\":\"Ünïcødé <&>\",\"publicCustomVisuals\":[\"" + ReplacementVisual + "\"]}"
	assert.Equal(t, want, out)
}

func TestTransform_Idempotent(t *testing.T) {
	in := layoutWith(
		container(t, `{"singleVisual":{"visualType":"tableEx","projections":{"Values":[1],"Columns":[2]}}}`),
		container(t, `{"singleVisual":{"visualType":"pivotTable","projections":{"Values":[1],"Rows":[2]}}}`),
		container(t, `not json`),
	)

	once, _, err := Transform(in, DefaultRules())
	require.NoError(t, err)
	twice, rep, err := Transform(once, DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.False(t, rep.Registered)
	assert.Equal(t, 0, rep.Converted)
	assert.Equal(t, 0, rep.Renamed)
}

func TestTransform_PublicCustomVisuals(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		want       string
		registered bool
	}{
		{
			name:       "absent",
			in:         `{}`,
			want:       `{"publicCustomVisuals":["` + ReplacementVisual + `"]}`,
			registered: true,
		},
		{
			name:       "other visuals listed",
			in:         `{"publicCustomVisuals":["other"],"z":1}`,
			want:       `{"publicCustomVisuals":["other","` + ReplacementVisual + `"],"z":1}`,
			registered: true,
		},
		{
			name: "already listed",
			in:   `{"publicCustomVisuals":["` + ReplacementVisual + `"]}`,
			want: `{"publicCustomVisuals":["` + ReplacementVisual + `"]}`,
		},
		{
			name:       "null",
			in:         `{"publicCustomVisuals":null}`,
			want:       `{"publicCustomVisuals":["` + ReplacementVisual + `"]}`,
			registered: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, rep, err := Transform(tt.in, DefaultRules())
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			assert.Equal(t, tt.registered, rep.Registered)
		})
	}
}

func TestTransform_Errors(t *testing.T) {
	inputs := []string{
		`{"sections":[`,
		`[1,2,3]`,
		`"just a string"`,
		`{"publicCustomVisuals":"nope"}`,
	}
	for _, in := range inputs {
		_, _, err := Transform(in, DefaultRules())
		assert.ErrorIs(t, err, ErrConfigParse, "input %q", in)
	}
}

func TestRewrite_KeepsByteOrderMark(t *testing.T) {
	member, err := Encode(Text{Content: `{"sections":[]}`, BOM: true})
	require.NoError(t, err)

	out, _, err := Rewrite(member, DefaultRules())
	require.NoError(t, err)

	text, err := Decode(out)
	require.NoError(t, err)
	assert.True(t, text.BOM)
	assert.Equal(t, `{"sections":[],"publicCustomVisuals":["`+ReplacementVisual+`"]}`, text.Content)
}

func TestRewrite_OddLength(t *testing.T) {
	_, _, err := Rewrite([]byte{'{', 0, '}'}, DefaultRules())
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestVisualConfig(t *testing.T) {
	parsed := ParseVisualConfig(`{"a" : 1}`)
	assert.True(t, parsed.IsParsed())
	assert.Equal(t, `{"a":1}`, parsed.String())

	opaque := ParseVisualConfig(`{"a" : `)
	assert.False(t, opaque.IsParsed())
	assert.Equal(t, `{"a" : `, opaque.String())
}
