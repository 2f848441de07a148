package main

import "testing"

func TestPageTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"simple title", "<html><head><title>My Page</title></head><body></body></html>", "My Page"},
		{"whitespace trimmed", "<html><head><title>  Spaced  </title></head></html>", "Spaced"},
		{"no title", "<html><head></head><body><p>hi</p></body></html>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pageTitle([]byte(tt.html)); got != tt.want {
				t.Errorf("pageTitle = %q, want %q", got, tt.want)
			}
		})
	}
}
