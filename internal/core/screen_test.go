package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(40, 12)

	if s.Width() != 40 {
		t.Errorf("Width() = %d, expected 40", s.Width())
	}
	if s.Height() != 12 {
		t.Errorf("Height() = %d, expected 12", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c != blank {
				t.Fatalf("New screen should be blank, got %+v at (%d, %d)", c, x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetCell(5, 5, '█', ColorBlockA)
	if got := s.GetCell(5, 5); got.Rune != '█' || got.Color != ColorBlockA {
		t.Errorf("GetCell(5, 5) = %+v, expected block A", got)
	}

	s.Set(1, 1, 'x')
	if s.GetCell(1, 1).Color != ColorDefault {
		t.Error("Set should use the default color")
	}

	// Out of bounds should be silent
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, -1, 'A')
	s.Set(0, 100, 'A')

	if s.Get(-1, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
	if s.GetCell(0, 100) != blank {
		t.Error("Out of bounds GetCell should return blank")
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(5, 5)
	s.DrawRect(Rect{X: 0, Y: 0, W: 5, H: 5}, '#', ColorFrame)
	s.Clear()
	if strings.TrimSpace(s.String()) != "" {
		t.Errorf("Clear() left content: %q", s.String())
	}
}

func TestScreenDrawText(t *testing.T) {
	tests := []struct {
		name string
		x    int
		text string
		want string
	}{
		{"start", 0, "Score", "Score     "},
		{"offset", 3, "abc", "   abc    "},
		{"clipped", 8, "hello", "        he"},
		{"multibyte", 0, "▶ go", "▶ go      "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewScreen(10, 1)
			s.DrawText(tc.x, 0, tc.text, ColorText)
			if got := s.Row(0); got != tc.want {
				t.Errorf("Row(0) = %q, expected %q", got, tc.want)
			}
		})
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(10, 1)
	s.DrawTextCentered(0, "ab", ColorText)
	if got := s.Row(0); got != "    ab    " {
		t.Errorf("Row(0) = %q, expected centered text", got)
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(4, 3)
	s.DrawBox(Rect{X: 0, Y: 0, W: 4, H: 3}, ColorFrame)

	want := "┌──┐\n│  │\n└──┘"
	if got := s.String(); got != want {
		t.Errorf("String() =\n%s\nexpected\n%s", got, want)
	}
	if s.GetCell(0, 0).Color != ColorFrame {
		t.Error("box corners should carry the frame color")
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(5, 5)
	s.SetCell(1, 1, 'X', ColorBlockB)
	s.SetCell(4, 4, 'Y', ColorBlockA)

	s.Resize(3, 3)
	if s.Width() != 3 || s.Height() != 3 {
		t.Fatalf("size = %dx%d, expected 3x3", s.Width(), s.Height())
	}
	if got := s.GetCell(1, 1); got.Rune != 'X' || got.Color != ColorBlockB {
		t.Errorf("content not preserved: %+v", got)
	}

	s.Resize(6, 6)
	if s.Get(4, 4) != ' ' {
		t.Error("cells cut by a shrink should not come back")
	}
}

func TestScreenRow(t *testing.T) {
	s := NewScreen(3, 2)
	s.DrawText(0, 1, "abc", ColorText)
	if s.Row(1) != "abc" {
		t.Errorf("Row(1) = %q, expected %q", s.Row(1), "abc")
	}
	if s.Row(5) != "   " {
		t.Errorf("Row(5) = %q, expected blanks", s.Row(5))
	}
}
