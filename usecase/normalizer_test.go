package usecase

import "testing"

func TestIsActionable(t *testing.T) {
	n := NewNormalizer()

	cases := []struct {
		text string
		want bool
	}{
		{"Hello", true},
		{"  halo dunia  ", true},
		{"42", true},
		{"", false},
		{"   ", false},
		{"\t\n", false},
		{"...", false},
		{"- - -", false},
		{"ñandú", true},
	}

	for _, c := range cases {
		if got := n.IsActionable(c.text); got != c.want {
			t.Errorf("IsActionable(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	n := NewNormalizer()
	if got := n.Normalize("  hello  "); got != "hello" {
		t.Errorf("Normalize trimmed to %q", got)
	}
}
