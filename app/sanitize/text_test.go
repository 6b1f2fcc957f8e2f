package sanitize

import "testing"

func TestStripTags(t *testing.T) {
	result := StripTags("<p>Hello&nbsp;<b>world</b></p>\n<script>var x = 1;</script><p>again</p>")

	if result != "Hello world again" {
		t.Errorf("Expected visible text, got %q", result)
	}
}

func TestCountImages(t *testing.T) {
	if count := CountImages(`<IMG src="a"><img src="b"><p>img</p>`); count != 2 {
		t.Errorf("Expected 2 images, got %d", count)
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"<p>one two three</p>", 3},
		{"<p>año 2024 récord</p>", 2},
		{"<p>l'homme well-known</p>", 2},
		{"", 0},
	}

	for _, tt := range tests {
		if count := WordCount(tt.input); count != tt.expected {
			t.Errorf("WordCount(%q): expected %d, got %d", tt.input, tt.expected, count)
		}
	}
}

func TestTextLength(t *testing.T) {
	if length := TextLength("<p>ñandú</p>"); length != 5 {
		t.Errorf("Expected 5 characters, got %d", length)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Él está aquí, ¡ya!", "el-esta-aqui-ya"},
		{"  Hello World  ", "hello-world"},
		{"Straße in Köln", "strasse-in-koln"},
		{"<b>Tagged</b> title", "tagged-title"},
		{"---", ""},
	}

	for _, tt := range tests {
		if slug := Slugify(tt.input); slug != tt.expected {
			t.Errorf("Slugify(%q): expected '%s', got '%s'", tt.input, tt.expected, slug)
		}
	}
}

func TestUpperFirst(t *testing.T) {
	if result := UpperFirst("ćwiczenie"); result != "Ćwiczenie" {
		t.Errorf("Expected 'Ćwiczenie', got '%s'", result)
	}
	if result := UpperFirst(""); result != "" {
		t.Errorf("Expected empty string, got '%s'", result)
	}
}
