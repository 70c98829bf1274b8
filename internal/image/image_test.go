package image

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestDataURIRoundTrip(t *testing.T) {
	uri := ToDataURI("image/png", pngHeader)
	if uri[:22] != "data:image/png;base64," {
		t.Fatalf("unexpected prefix %q", uri[:22])
	}

	info, err := ParseDataURI(uri)
	if err != nil {
		t.Fatal(err)
	}
	if info.MediaType != "image/png" || string(info.Data) != string(pngHeader) || info.Size != len(pngHeader) {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestParseDataURIErrors(t *testing.T) {
	tests := []struct {
		name string
		uri  string
	}{
		{"plain url", "https://example.com/x.png"},
		{"no base64 marker", "data:image/png,abc"},
		{"bad payload", "data:image/png;base64,!!!"},
		{"not an image", ToDataURI("text/plain", []byte("hi"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDataURI(tt.uri); err == nil {
				t.Errorf("ParseDataURI(%q) should fail", tt.uri)
			}
		})
	}
	if _, err := ParseDataURI("nope"); !errors.Is(err, ErrNotDataURI) {
		t.Errorf("expected ErrNotDataURI, got %v", err)
	}
}

func TestParseDataURISniffsMissingType(t *testing.T) {
	info, err := ParseDataURI(ToDataURI("", pngHeader))
	if err != nil {
		t.Fatal(err)
	}
	if info.MediaType != "image/png" {
		t.Errorf("expected sniffed image/png, got %s", info.MediaType)
	}
}

func TestExtensionPrefersContent(t *testing.T) {
	info := &ImageInfo{MediaType: "image/jpeg", Data: pngHeader}
	if ext := info.Extension(); ext != ".png" {
		t.Errorf("expected .png from content, got %s", ext)
	}
	info = &ImageInfo{MediaType: "image/webp", Data: []byte("????")}
	if ext := info.Extension(); ext != ".webp" {
		t.Errorf("expected .webp from media type, got %s", ext)
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	info := &ImageInfo{MediaType: "image/png", Data: pngHeader, Size: len(pngHeader)}

	path, err := info.Save(dir, "msg-1")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "msg-1.png" {
		t.Errorf("unexpected file name %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != string(pngHeader) {
		t.Errorf("unexpected file content %q, %v", data, err)
	}

	again, err := info.Save(dir, "msg-1")
	if err != nil || again != path {
		t.Errorf("second save should reuse %s, got %s, %v", path, again, err)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    int
		expected string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5242880, "5.0 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatBytes(tt.bytes)
			if result != tt.expected {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, result, tt.expected)
			}
		})
	}
}

func TestCopyToClipboardRejectsEmpty(t *testing.T) {
	if err := CopyToClipboard(nil); err == nil {
		t.Error("expected error for nil image")
	}
}
