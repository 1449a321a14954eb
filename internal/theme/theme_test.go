package theme

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOverridesDefaults(t *testing.T) {
	th, err := Parse(strings.NewReader(`
# comment
Name: Test
Placeholder: #102030
PaletteSelected: gold
Border: #11223344
BorderWidth: 3.5
Unknown: #000000
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if th.Name != "Test" {
		t.Errorf("name = %q", th.Name)
	}
	if th.Placeholder != (color.RGBA{0x10, 0x20, 0x30, 0xff}) {
		t.Errorf("placeholder = %v", th.Placeholder)
	}
	if th.PaletteSelected != (color.RGBA{0xff, 0xd7, 0x00, 0xff}) {
		t.Errorf("selected = %v", th.PaletteSelected)
	}
	if th.Border != (color.RGBA{0x11, 0x22, 0x33, 0x44}) {
		t.Errorf("border = %v", th.Border)
	}
	if th.BorderWidth != 3.5 {
		t.Errorf("border width = %v", th.BorderWidth)
	}
	if th.Background != Default().Background {
		t.Errorf("unset key should keep default, got %v", th.Background)
	}
}

func TestParseRejectsBadColor(t *testing.T) {
	for _, in := range []string{"Border: #12", "Border: notacolor", "BorderWidth: -1"} {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	want := Default()
	want.Name = "Round"
	want.Text = color.RGBA{1, 2, 3, 4}
	var buf bytes.Buffer
	if err := Format(&buf, want); err != nil {
		t.Fatal(err)
	}
	got, err := Parse(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if *got != *want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestLoaderEmbedded(t *testing.T) {
	l := &Loader{}
	th, err := l.Load("dark")
	if err != nil {
		t.Fatalf("load dark: %v", err)
	}
	if th.Name != "Dark" {
		t.Errorf("name = %q", th.Name)
	}
	if _, err := l.Load("Print"); err != nil {
		t.Errorf("names are case insensitive: %v", err)
	}
	if _, err := l.Load("no-such-theme"); err == nil {
		t.Error("expected missing theme error")
	}
}

func TestLoaderEnvAndDirs(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mine.theme"), []byte("Name: Mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{ConfigDir: dir}
	t.Setenv(EnvVar, "mine")
	th, err := l.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if th.Name != "Mine" {
		t.Errorf("name = %q", th.Name)
	}

	names := l.Names()
	joined := strings.Join(names, ",")
	if joined != "dark,default,mine,print" {
		t.Errorf("names = %v", names)
	}
}

func TestStyle(t *testing.T) {
	th := Default()
	s := th.Style()
	if s.Placeholder != th.Placeholder || s.BorderWidth != 2 {
		t.Errorf("unexpected style %+v", s)
	}
	var none *Theme
	if none.Style().Border == nil {
		t.Error("nil theme should give the default style")
	}
}
