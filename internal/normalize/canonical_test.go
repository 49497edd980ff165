package normalize

import "testing"

func TestTypography(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"smart_quotes", "“hello”", `"hello"`},
		{"apostrophe", "it’s", "it's"},
		{"dash", "well—then", "well-then"},
		{"ellipsis", "wait…", "wait..."},
		{"idempotent", "plain text", "plain text"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Typography(c.in)
			if got != c.want {
				t.Errorf("Typography(%q) = %q, want %q", c.in, got, c.want)
			}
			if again := Typography(got); again != got {
				t.Errorf("Typography not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestCanonical(t *testing.T) {
	cases := []struct {
		name string
		in   string
		opts Options
		want string
	}{
		{"casefold", "HELLO", Options{}, "hello"},
		{"strip_punct", "hello,", Options{}, "hello"},
		{"keep_intraword_apostrophe", "don't", Options{}, "do not"},
		{"keep_possessive_apostrophe", "book's", Options{}, "book's"},
		{"leading_apostrophe_dropped", "'tis", Options{}, "tis"},
		{"cannot_stays_one_word", "cannot", Options{}, "cannot"},
		{"spell_out_numbers", "123", Options{SpellOutNumbers: true}, "one hundred twenty-three"},
		{"no_spell_out_by_default", "123", Options{}, "123"},
		{"whitespace_collapse", "hello   world", Options{}, "hello world"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Canonical(c.in, c.opts)
			if got != c.want {
				t.Errorf("Canonical(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestCanonicalText(t *testing.T) {
	got := CanonicalText("It's a cold, dark night…", Options{})
	want := "it is a cold dark night"
	if got != want {
		t.Errorf("CanonicalText = %q, want %q", got, want)
	}
}
