package blocklist

import "testing"

func TestSanitizeNormalizesAndDedupes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plus and dots",
			in:   "Foo+spam@Example.com\nfoo.bar@example.com",
			want: "foo@example.com\nfoobar@example.com",
		},
		{
			name: "duplicates after normalization",
			in:   "f.o.o@example.com, foo+x@EXAMPLE.com\r\nfoo@example.com",
			want: "foo@example.com",
		},
		{
			name: "commas and blank lines",
			in:   "a@example.com,,b@example.com\n\n\nc@example.com,",
			want: "a@example.com\nb@example.com\nc@example.com",
		},
		{
			name: "whitespace inside entries",
			in:   "  a @ example.com \t",
			want: "a@example.com",
		},
		{
			name: "invalid entries pass through",
			in:   "Not-An-Email\nfoo.bar@example.com\nnot-an-email",
			want: "not-an-email\nfoobar@example.com",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := Sanitize(tc.in)
			if !changed {
				t.Fatal("expected non-empty input to produce output")
			}
			if got != tc.want {
				t.Fatalf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"Foo+spam@Example.com\nfoo.bar@example.com",
		"a@example.com, b+c@example.org\nbad entry",
		"x",
	}
	for _, in := range inputs {
		once, _ := Sanitize(in)
		twice, _ := Sanitize(once)
		if once != twice {
			t.Fatalf("not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestSanitizeEmptyInput(t *testing.T) {
	got, changed := Sanitize("")
	if changed || got != "" {
		t.Fatalf("expected no-op, got %q changed=%v", got, changed)
	}
}

func TestNormalizeKeepsDomain(t *testing.T) {
	if got := Normalize("j.doe+news@mail.example.co.uk"); got != "jdoe@mail.example.co.uk" {
		t.Fatalf("unexpected normalization: %q", got)
	}
	if got := Normalize("@example.com"); got != "@example.com" {
		t.Fatalf("invalid address must pass through, got %q", got)
	}
}

func TestLines(t *testing.T) {
	if len(Lines("")) != 0 {
		t.Fatal("expected no lines for empty text")
	}
	got := Lines("a@example.com\nb@example.com")
	if len(got) != 2 || got[1] != "b@example.com" {
		t.Fatalf("unexpected lines: %v", got)
	}
}
