package sanitize

import "testing"

func TestText(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  Salón principal  ", "Salón principal"},
		{"<b>Boda</b> en jardín", "Boda en jardín"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;hola", "alert(1)hola"},
		{"línea 1\nlínea 2\x00", "línea 1\nlínea 2"},
	}
	for _, tc := range cases {
		if got := Text(tc.in); got != tc.want {
			t.Fatalf("Text(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestOptionalText(t *testing.T) {
	if OptionalText(nil) != nil {
		t.Fatal("nil input must stay nil")
	}
	blank := "  <br>  "
	if OptionalText(&blank) != nil {
		t.Fatal("input that cleans to nothing must become nil")
	}
	note := " traer manteles "
	got := OptionalText(&note)
	if got == nil || *got != "traer manteles" {
		t.Fatalf("unexpected result %v", got)
	}
}
