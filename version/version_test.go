package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{name: "version only", info: Info{Version: "1.0.0", Commit: "unknown", Date: "unknown"}, want: "1.0.0"},
		{name: "short commit ignored", info: Info{Version: "1.0.0", Commit: "abc", Date: "unknown"}, want: "1.0.0"},
		{name: "with commit", info: Info{Version: "1.0.0", Commit: "0123456789abcdef", Date: "unknown"}, want: "1.0.0 (0123456)"},
		{name: "with commit and date", info: Info{Version: "1.0.0", Commit: "0123456789abcdef", Date: "2026-01-02"}, want: "1.0.0 (0123456, built 2026-01-02)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.String())
		})
	}
}

func TestGetInfo_LinkTimeValuesWin(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })
	Version = "9.9.9"

	info := GetInfo()
	assert.Equal(t, "9.9.9", info.Version)
	assert.Equal(t, Package, info.Package)
}

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	Fprint(&buf, "pbixconv")
	assert.Contains(t, buf.String(), "pbixconv version ")
	assert.Contains(t, buf.String(), "Package: pbix-converter")
}
