package naming

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNamer_DefaultNames(t *testing.T) {
	n := New("paper")

	if got := n.Next(); got != "paper_Q0001" {
		t.Errorf("first default = %q, want paper_Q0001", got)
	}
	if got := n.Next(); got != "paper_Q0002" {
		t.Errorf("second default = %q, want paper_Q0002", got)
	}
}

func TestNamer_LearnsFromFirstRename(t *testing.T) {
	n := New("paper")
	n.Next() // paper_Q0001, later renamed by the user

	n.ObserveRename("fig_01")

	if n.State() != StateLearned {
		t.Fatalf("state = %v, want learned", n.State())
	}
	if got := n.Next(); got != "fig_02" {
		t.Errorf("next = %q, want fig_02", got)
	}
	if got := n.Next(); got != "fig_03" {
		t.Errorf("next = %q, want fig_03", got)
	}
}

func TestNamer_NoDigitsLearnsBareCounter(t *testing.T) {
	n := New("paper")
	n.Next()

	n.ObserveRename("cover")

	if got := n.Next(); got != "cover1" {
		t.Errorf("next = %q, want cover1", got)
	}
	if got := n.Next(); got != "cover2" {
		t.Errorf("next = %q, want cover2", got)
	}
}

func TestNamer_CounterNeverReused(t *testing.T) {
	n := New("paper")
	n.ObserveRename("fig_01")

	n.Next() // fig_02
	n.Next() // fig_03, then user deletes fig_02: nothing is decremented

	if got := n.Next(); got != "fig_04" {
		t.Errorf("after delete, next = %q, want fig_04", got)
	}
}

func TestNamer_LearnedPatternIsSticky(t *testing.T) {
	n := New("paper")
	n.ObserveRename("fig_01")

	// A structurally different rename must not change the pattern.
	n.ObserveRename("photo-9")

	if got := n.Next(); got != "fig_02" {
		t.Errorf("next = %q, want fig_02 (pattern must be sticky)", got)
	}
}

func TestNamer_ConsistentRenameBumpsCounter(t *testing.T) {
	n := New("paper")
	n.ObserveRename("fig_01")

	// Same prefix/suffix/width: only the counter moves forward.
	n.ObserveRename("fig_07")

	if got := n.Next(); got != "fig_08" {
		t.Errorf("next = %q, want fig_08", got)
	}

	// A lower consistent number never moves the counter backward.
	n.ObserveRename("fig_03")
	if got := n.Next(); got != "fig_09" {
		t.Errorf("next = %q, want fig_09", got)
	}
}

func TestNamer_Reset(t *testing.T) {
	n := New("paper")
	n.Next() // paper_Q0001
	n.ObserveRename("fig_01")
	n.Next() // fig_02

	n.Reset()

	if n.State() != StateUnlearned {
		t.Fatalf("state after reset = %v, want unlearned", n.State())
	}
	// The default sequence keeps counting; issued defaults are not reused.
	if got := n.Next(); got != "paper_Q0002" {
		t.Errorf("next after reset = %q, want paper_Q0002", got)
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantOK     bool
		wantP      Pattern
		wantNumber int
	}{
		{"trailing digits", "study_fig_001", true, Pattern{"study_fig_", 3, ""}, 1},
		{"digits with suffix", "fig12_final", true, Pattern{"fig", 2, "_final"}, 12},
		{"rightmost run wins", "v2_fig_007", true, Pattern{"v2_fig_", 3, ""}, 7},
		{"no digits", "cover", false, Pattern{}, 0},
		{"only digits", "0042", true, Pattern{"", 4, ""}, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, num, ok := ParseName(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if diff := cmp.Diff(tt.wantP, p); diff != "" {
				t.Errorf("pattern mismatch (-want +got):\n%s", diff)
			}
			if num != tt.wantNumber {
				t.Errorf("number = %d, want %d", num, tt.wantNumber)
			}
		})
	}
}

func TestPatternFormat(t *testing.T) {
	tests := []struct {
		name string
		p    Pattern
		n    int
		want string
	}{
		{"zero padded", Pattern{"fig_", 2, ""}, 3, "fig_03"},
		{"wider than field", Pattern{"fig_", 2, ""}, 123, "fig_123"},
		{"bare counter", Pattern{"cover", 0, ""}, 1, "cover1"},
		{"with suffix", Pattern{"img", 3, "_raw"}, 7, "img007_raw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Format(tt.n); got != tt.want {
				t.Errorf("Format(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	if err := ValidateName("fig_01"); err != nil {
		t.Errorf("ValidateName(fig_01) = %v", err)
	}
	for _, bad := range []string{"", "   ", `fig/01`, `a<b`, `what?`} {
		if err := ValidateName(bad); err == nil {
			t.Errorf("ValidateName(%q) = nil, want error", bad)
		}
	}
}

func TestSuggestFromCaption(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Figure 3: Measured throughput", "figure_3"},
		{"Fig. 12 shows the topology", "figure_12"},
		{"TABLE 2. Results", "table_2"},
		{"no caption here", ""},
	}

	for _, tt := range tests {
		if got := SuggestFromCaption(tt.in); got != tt.want {
			t.Errorf("SuggestFromCaption(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
