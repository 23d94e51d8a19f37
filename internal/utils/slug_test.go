package utils_test

import (
	"testing"

	"github.com/terraforge-gg/terraforge/internal/utils"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"My Great Mod", "my-great-mod"},
		{"  spaces  ", "spaces"},
		{"Already-fine_1", "already-fine_1"},
		{"weird!!chars##here", "weird-chars-here"},
		{"---leading and trailing---", "leading-and-trailing"},
	}

	for _, c := range cases {
		if got := utils.Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestNormalizeUsername(t *testing.T) {
	if got := utils.NormalizeUsername("  Alice "); got != "alice" {
		t.Errorf("expected %q, got %q", "alice", got)
	}
	// Fullwidth letters normalize to their ASCII forms under NFKC.
	if got := utils.NormalizeUsername("Ａｌｉｃｅ"); got != "alice" {
		t.Errorf("expected NFKC fold to %q, got %q", "alice", got)
	}
}

func TestGenerateUUID_Format(t *testing.T) {
	a := utils.GenerateUUID()
	b := utils.GenerateUUID()

	if len(a) != 36 {
		t.Errorf("expected 36-char uuid, got %q", a)
	}
	if a == b {
		t.Error("expected distinct ids")
	}
	// Version 7 ids are time-ordered.
	if a[14] != '7' {
		t.Errorf("expected a version 7 uuid, got %q", a)
	}
}
