package ingest

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenizeBasic(t *testing.T) {
	tok := NewTokenizer(nil)

	got := tok.Tokenize("New York hosted the assembly")
	want := []string{"new", "york", "hosted", "the", "assembly"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizeStopwords(t *testing.T) {
	tok := NewTokenizer([]string{"the", "The"})

	got := tok.Tokenize("the cat sat on the mat")
	for _, w := range got {
		if w == "the" {
			t.Error("stopword survived tokenization")
		}
	}
}

func TestTokenizeDropsShortAndNumeric(t *testing.T) {
	tok := NewTokenizer(nil)

	got := tok.Tokenize("a 1 2024 x model")
	want := []string{"model"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizeKeepsMixedAlphanumeric(t *testing.T) {
	tok := NewTokenizer(nil)

	got := tok.Tokenize("gpt-4 and utf-8 encodings")
	joined := strings.Join(got, " ")
	if !strings.Contains(joined, "gpt-4") || !strings.Contains(joined, "utf-8") {
		t.Errorf("mixed alphanumeric tokens should be kept, got %v", got)
	}
}

func TestTokenizeCleansHyphens(t *testing.T) {
	tok := NewTokenizer(nil)

	got := tok.Tokenize("-edge- state--of--the--art")
	want := []string{"edge", "state-of-the-art"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestAddStopword(t *testing.T) {
	tok := NewTokenizer(nil)
	tok.AddStopword("Noise")

	got := tok.Tokenize("noise signal")
	want := []string{"signal"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestExtractText(t *testing.T) {
	const page = `<html><head><style>body { color: red }</style></head>
<body><h1>United Nations</h1><script>var x = 1;</script><p>met in <b>New York</b>.</p></body></html>`

	text, err := ExtractText(strings.NewReader(page))
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}

	if !strings.Contains(text, "United Nations") || !strings.Contains(text, "New York") {
		t.Errorf("visible text missing from %q", text)
	}
	if strings.Contains(text, "var x") || strings.Contains(text, "color") {
		t.Errorf("script/style content leaked into %q", text)
	}
}
