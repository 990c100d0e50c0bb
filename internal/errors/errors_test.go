package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name    string
		err     *VestigeError
		want    []string
		exclude string
	}{
		{
			name: "without cause",
			err:  New(ConfigInvalid, "bad workers value", nil),
			want: []string{"CONFIG_INVALID", "bad workers value"},
		},
		{
			name: "with cause",
			err:  New(SnapshotInvalid, "decode failed", fmt.Errorf("yaml: line 3")),
			want: []string{"SNAPSHOT_INVALID", "decode failed", "yaml: line 3"},
		},
		{
			name: "integrity",
			err:  NewIntegrity(`no extended reference kind is registered for declaration kind "enum.case"`),
			want: []string{"INTEGRITY_ERROR", "enum.case"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := tc.err.Error()
			for _, want := range tc.want {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, missing %q", msg, want)
				}
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := New(InternalError, "wrapped", cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is failed to find wrapped cause")
	}
	if New(InternalError, "no cause", nil).Unwrap() != nil {
		t.Error("Unwrap() without cause should be nil")
	}
}

func TestIsCode(t *testing.T) {
	err := NewIntegrity("kind table incomplete")

	if !IsCode(err, IntegrityError) {
		t.Error("IsCode(integrity err, IntegrityError) = false")
	}
	if IsCode(err, ConfigInvalid) {
		t.Error("IsCode matched wrong code")
	}
	if IsCode(fmt.Errorf("plain"), IntegrityError) {
		t.Error("IsCode matched a plain error")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(SnapshotInvalid, "decode failed", nil).
		WithDetails(map[string]string{"path": "index.yml"})

	details, ok := err.Details.(map[string]string)
	if !ok || details["path"] != "index.yml" {
		t.Errorf("Details = %v, want path=index.yml", err.Details)
	}
}
