package model

import (
	"errors"
	"testing"
)

func TestParseUCIMove(t *testing.T) {
	tests := []struct {
		token string
		want  string
		err   bool
	}{
		{"e2e4", "e2e4", false},
		{"E7E8Q", "e7e8q", false},
		{" g1f3 ", "g1f3", false},
		{"a7a8n", "a7a8n", false},
		{"e7e8k", "", true},
		{"e7e8x", "", true},
		{"e2", "", true},
		{"e2e4e5", "", true},
		{"22e4", "", true},
		{"e2e0", "", true},
	}
	for _, tt := range tests {
		move, err := ParseUCIMove(tt.token)
		if tt.err {
			if !errors.Is(err, ErrMalformedMove) {
				t.Errorf("ParseUCIMove(%q) err = %v", tt.token, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseUCIMove(%q): %v", tt.token, err)
			continue
		}
		if move.String() != tt.want {
			t.Errorf("ParseUCIMove(%q) = %s", tt.token, move)
		}
	}
}

func TestParseSquare(t *testing.T) {
	pos, err := ParseSquare("e4")
	if err != nil || pos != (Position{X: 4, Y: 3}) {
		t.Errorf("e4 = %v, %v", pos, err)
	}
	if pos.String() != "e4" {
		t.Errorf("String() = %s", pos)
	}
	if pos, err := ParseSquare("b10"); err != nil || pos != (Position{X: 1, Y: 9}) {
		t.Errorf("b10 = %v, %v", pos, err)
	}
	for _, bad := range []string{"", "e", "4e", "e0", "e-1", "ex"} {
		if _, err := ParseSquare(bad); !errors.Is(err, ErrInvalidSquare) {
			t.Errorf("ParseSquare(%q) err = %v", bad, err)
		}
	}
}
