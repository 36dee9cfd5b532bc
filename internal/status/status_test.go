package status

import (
	"strings"
	"testing"
)

func TestColor(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{Cancelled, "purple"},
		{Failed, "red"},
		{Completed, "green"},
		{Running, "blue"},
		{Submitted, "yellow"},
		{ShouldRun, "black"},
		{Unknown, "black"},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := tt.status.Color(); got != tt.want {
				t.Errorf("%s.Color() = %q, want %q", tt.status, got, tt.want)
			}
		})
	}

	if len(tests) != len(All()) {
		t.Errorf("color table covers %d statuses, All() has %d", len(tests), len(All()))
	}
}

func TestColor_OutOfRangePanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Color() on an out-of-range status should panic")
		}
		if msg, ok := r.(string); !ok || !strings.Contains(msg, "status(99)") {
			t.Errorf("panic = %v, want message naming status(99)", r)
		}
	}()
	Status(99).Color()
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input       string
		want        Status
		errContains string
	}{
		{input: "completed", want: Completed},
		{input: "RUNNING", want: Running},
		{input: " failed ", want: Failed},
		{input: "should_run", want: ShouldRun},
		{input: "should-run", want: ShouldRun},
		{input: "shouldrun", want: ShouldRun},
		{input: "unknown", want: Unknown},
		{input: "done", errContains: "unknown status"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.errContains != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("ParseStatus(%q) error = %v, want containing %q", tt.input, err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatus(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range All() {
		got, err := ParseStatus(s.String())
		if err != nil {
			t.Fatalf("ParseStatus(%q) unexpected error: %v", s.String(), err)
		}
		if got != s {
			t.Errorf("ParseStatus(%q) = %v, want %v", s.String(), got, s)
		}
	}
}

func TestOverlay(t *testing.T) {
	var empty Overlay
	if !empty.Empty() {
		t.Error("nil overlay should be empty")
	}
	if got := empty.Lookup("A"); got != Unknown {
		t.Errorf("nil overlay Lookup = %v, want Unknown", got)
	}

	o := Overlay{"A": Completed, "B": Running, "stale": Failed}
	if o.Empty() {
		t.Error("populated overlay reported empty")
	}
	if got := o.Lookup("C"); got != Unknown {
		t.Errorf("Lookup(C) = %v, want Unknown", got)
	}

	counts := o.Counts([]string{"A", "B", "C"})
	if counts[Completed] != 1 || counts[Running] != 1 || counts[Unknown] != 1 || counts[Failed] != 0 {
		t.Errorf("Counts() = %v", counts)
	}

	r := o.Restrict([]string{"A", "C"})
	if len(r) != 1 || r["A"] != Completed {
		t.Errorf("Restrict() = %v, want map[A:completed]", r)
	}
}
