package encoding

import (
	"testing"
	"unicode/utf8"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", UTF8, false},
		{"UTF-8", UTF8, false},
		{"latin1", Latin1, false},
		{"ISO-8859-1", Latin1, false},
		{"cp1252", Windows1252, false},
		{"Shift_JIS", ShiftJIS, false},
		{"euc-kr", EUCKR, false},
		{"klingon", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Lookup(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err == nil && d.Name() != tt.want {
				t.Errorf("Lookup(%q).Name() = %q, want %q", tt.name, d.Name(), tt.want)
			}
		})
	}
}

func TestDecodeUTF8(t *testing.T) {
	if got := Default.Decode([]byte("Default")); got != "Default" {
		t.Errorf("Decode() = %q, want %q", got, "Default")
	}
	if got := Default.Decode(nil); got != "" {
		t.Errorf("Decode(nil) = %q, want empty", got)
	}
}

func TestDecodeInvalidUTF8(t *testing.T) {
	got := Default.Decode([]byte{'a', 0xff, 0xfe, 'b'})
	if !utf8.ValidString(got) {
		t.Fatalf("Decode() returned invalid UTF-8: %q", got)
	}
	if got[0] != 'a' || got[len(got)-1] != 'b' {
		t.Errorf("Decode() = %q, want surrounding characters preserved", got)
	}
}

func TestDecodeLatin1(t *testing.T) {
	d, err := Lookup(Latin1)
	if err != nil {
		t.Fatal(err)
	}
	if got := d.Decode([]byte{'c', 'a', 'f', 0xe9}); got != "café" {
		t.Errorf("Decode() = %q, want %q", got, "café")
	}
}

func TestZeroDecoder(t *testing.T) {
	var d Decoder
	if d.Name() != UTF8 {
		t.Errorf("zero Decoder Name() = %q, want %q", d.Name(), UTF8)
	}
	if got := d.Decode([]byte("abc")); got != "abc" {
		t.Errorf("zero Decoder Decode() = %q, want %q", got, "abc")
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"images/wood.tga", "images/wood.tga"},
		{`C:\Images\wood.tga`, "/Images/wood.tga"},
		{`textures\brick.png`, "textures/brick.png"},
		{"d:/x.jpg", "/x.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizePath(tt.in); got != tt.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNamesResolve(t *testing.T) {
	for _, name := range Names() {
		d, err := Lookup(name)
		if err != nil {
			t.Errorf("Lookup(%q) error = %v", name, err)
			continue
		}
		if d.Name() != name {
			t.Errorf("Lookup(%q).Name() = %q", name, d.Name())
		}
	}
}
