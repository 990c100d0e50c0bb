package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	origVersion := Version
	origCommit := Commit
	defer func() {
		Version = origVersion
		Commit = origCommit
	}()

	tests := []struct {
		name      string
		version   string
		commit    string
		wantExact string
	}{
		{
			name:      "unknown commit",
			version:   "1.0.0",
			commit:    "unknown",
			wantExact: "1.0.0",
		},
		{
			name:      "short commit",
			version:   "1.0.0",
			commit:    "abc",
			wantExact: "1.0.0",
		},
		{
			name:      "full commit truncated",
			version:   "1.0.0",
			commit:    "abcdef0123456789",
			wantExact: "1.0.0 (abcdef0)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version = tt.version
			Commit = tt.commit
			if got := Info(); got != tt.wantExact {
				t.Errorf("Info() = %q, want %q", got, tt.wantExact)
			}
		})
	}
}

func TestFull(t *testing.T) {
	got := Full()
	for _, want := range []string{"vestige version", "Commit:", "Built:"} {
		if !strings.Contains(got, want) {
			t.Errorf("Full() missing %q in %q", want, got)
		}
	}
}
