package ds

import (
	"testing"
)

func TestNewElementDefaults(t *testing.T) {
	e := NewElement(42)

	if e.Value != 42 {
		t.Errorf("Value = %v, want 42", e.Value)
	}
	if e.Name != "" {
		t.Errorf("Name = %q, want empty", e.Name)
	}
	if e.Color != [4]float32{0, 0, 0, 1} {
		t.Errorf("Color = %v, want opaque black", e.Color)
	}
	if e.Size != 10 {
		t.Errorf("Size = %v, want 10", e.Size)
	}
	if e.Location != [2]float32{0, 0} {
		t.Errorf("Location = %v, want origin", e.Location)
	}
	if e.Shape != "circle" {
		t.Errorf("Shape = %q, want circle", e.Shape)
	}
}

func TestElementOptions(t *testing.T) {
	e := NewElement("v",
		WithName("node"),
		WithColor(ColorBlue),
		WithSize(25),
		WithLocation(1.5, -2),
		WithShape("diamond"),
	)

	want := Style{
		Name:     "node",
		Color:    [4]float32{0, 0, 255, 1},
		Size:     25,
		Location: [2]float32{1.5, -2},
		Shape:    "diamond",
	}
	if e.Style != want {
		t.Errorf("Style = %+v, want %+v", e.Style, want)
	}
}

func TestNewLinkDefaults(t *testing.T) {
	l := NewLink(3, 4)
	want := Link{Color: ColorBlack, Thickness: 1, Weight: 1, Source: 3, Target: 4}
	if l != want {
		t.Errorf("NewLink() = %+v, want %+v", l, want)
	}
	if !l.Connects(3, 4) || l.Connects(4, 3) {
		t.Error("Connects should match direction")
	}
}

func TestNamedColor(t *testing.T) {
	tests := []struct {
		name string
		want [4]float32
		ok   bool
	}{
		{"red", ColorRed, true},
		{" Blue ", ColorBlue, true},
		{"GREY", ColorGray, true},
		{"chartreuse", [4]float32{}, false},
	}
	for _, tt := range tests {
		got, ok := NamedColor(tt.name)
		if ok != tt.ok || got != tt.want {
			t.Errorf("NamedColor(%q) = %v, %v, want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}
