package version

import (
	"strings"
	"testing"
)

func TestColored(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	tests := []struct {
		version string
		color   bool
		want    string
	}{
		{"1.2.3", false, "1.2.3"},
		{"0.1.0-dev", false, "0.1.0-dev"},
		{"nightly", true, "nightly"},
	}
	for _, tt := range tests {
		Version = tt.version
		if got := Colored(tt.color); got != tt.want {
			t.Errorf("Colored(%v) with %q = %q, want %q", tt.color, tt.version, got, tt.want)
		}
	}

	Version = "1.2.3-rc1"
	got := Colored(true)
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "-rc1") {
		t.Errorf("Colored(true) = %q", got)
	}
}
