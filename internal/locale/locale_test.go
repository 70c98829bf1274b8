package locale

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Language
		ok   bool
	}{
		{"en", English, true},
		{"VI", Vietnamese, true},
		{" vi ", Vietnamese, true},
		{"fr", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Parse(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Parse(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestToggle(t *testing.T) {
	if English.Toggle() != Vietnamese {
		t.Error("en should toggle to vi")
	}
	if Vietnamese.Toggle() != English {
		t.Error("vi should toggle to en")
	}
}

func TestResponseDirective(t *testing.T) {
	if got := English.ResponseDirective(); got != "(Please respond in English)" {
		t.Errorf("unexpected directive %q", got)
	}
	if got := Vietnamese.ResponseDirective(); got != "(Please respond in Vietnamese)" {
		t.Errorf("unexpected directive %q", got)
	}
}

func TestForFallsBackToDefault(t *testing.T) {
	if For(Language("xx")).WelcomeMsg != For(English).WelcomeMsg {
		t.Error("unknown language should use English strings")
	}
	if For(Vietnamese).ErrorConn == For(English).ErrorConn {
		t.Error("Vietnamese strings should differ from English")
	}
}

func TestImageCaption(t *testing.T) {
	got := For(English).ImageCaption("neon city")
	if got != `Visual asset rendered for: "neon city"` {
		t.Errorf("unexpected caption %q", got)
	}
}
