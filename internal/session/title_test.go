package session

import "testing"

func TestTitleFromMessage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short", "Hi", "Hi"},
		{"exactly twenty", "12345678901234567890", "12345678901234567890"},
		{"twenty one", "123456789012345678901", "12345678901234567890..."},
		{"long sentence", "Hello world this is a long test message", "Hello world this is ..."},
		{"multibyte", "Xin chào thế giới, đây là tin nhắn", "Xin chào thế giới, đ..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitleFromMessage(tt.in); got != tt.want {
				t.Errorf("TitleFromMessage(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
