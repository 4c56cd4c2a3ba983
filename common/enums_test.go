package common

import "testing"

func TestStatusFromCode(t *testing.T) {
	tests := []struct {
		code int
		want Status
	}{
		{1, StatusPassed},
		{2, StatusBlocked},
		{3, StatusUntested},
		{4, StatusRetest},
		{5, StatusFailed},
		{0, StatusUnknown},
		{6, StatusUnknown},
		{9, StatusUnknown},
		{-1, StatusUnknown},
	}
	for _, tt := range tests {
		if got := StatusFromCode(tt.code); got != tt.want {
			t.Errorf("StatusFromCode(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestStatusOrderAndNames(t *testing.T) {
	want := []string{"Passed", "Blocked", "Untested", "Retest", "Failed", "Unknown"}
	values := StatusValues()
	if len(values) != len(want) {
		t.Fatalf("StatusValues() length = %d, want %d", len(values), len(want))
	}
	for i, v := range values {
		if v.String() != want[i] {
			t.Errorf("StatusValues()[%d] = %q, want %q", i, v.String(), want[i])
		}
	}
}

func TestStatusColor(t *testing.T) {
	if c := StatusFailed.Color(); c != "FF0000" {
		t.Errorf("StatusFailed.Color() = %s, want FF0000", c)
	}
	if c := StatusUnknown.Color(); c != "FFFFFF" {
		t.Errorf("StatusUnknown.Color() = %s, want FFFFFF", c)
	}
}

func TestExportModeText(t *testing.T) {
	var m ExportMode
	if err := m.UnmarshalText([]byte("stream")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if m != ExportModeStream {
		t.Errorf("UnmarshalText() = %v, want stream", m)
	}
	if err := m.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("Expected error for unknown export mode")
	}
}
