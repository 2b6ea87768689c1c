package clean

import "testing"

// fakeDict maps known forms to their base forms; a base form maps to itself
type fakeDict map[string][]string

func (d fakeDict) InDict(word string) bool {
	_, ok := d[word]
	return ok
}

func (d fakeDict) Lemmas(word string) []string {
	if lemmas, ok := d[word]; ok {
		return lemmas
	}
	return []string{word}
}

// newFakeDict registers each base form plus the inflected forms pointing at it
func newFakeDict(forms map[string][]string) fakeDict {
	d := fakeDict{}
	for base, inflected := range forms {
		if _, ok := d[base]; !ok {
			d[base] = []string{base}
		}
		for _, f := range inflected {
			d[f] = append(d[f], base)
		}
	}
	return d
}

func TestLemmatizer_Lemmatize(t *testing.T) {
	dict := newFakeDict(map[string][]string{
		"cat":    {"cats"},
		"box":    {"boxes"},
		"church": {"churches"},
		"city":   {"cities"},
		"glass":  {"glasses"},
		"bus":    {"buses"},
		"dog":    {"dogs"},
		"scarf":  {"scarves"},
		"hoof":   {"hooves"},
	})
	l := NewLemmatizer(dict)

	tests := []struct {
		in, want string
	}{
		{"cats", "cat"},
		{"boxes", "box"},
		{"churches", "church"},
		{"cities", "city"},
		{"glasses", "glass"},
		{"scarves", "scarf"},
		{"hooves", "hoof"},
		{"dog", "dog"},
		{"children", "child"},
		{"wolves", "wolf"},
		{"feeling", "feeling"},
		{"xyzzys", "xyzzys"},
	}
	for _, tt := range tests {
		if got := l.Lemmatize(tt.in); got != tt.want {
			t.Errorf("Lemmatize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLemmatizer_RuleNeedsMatchingBaseForm(t *testing.T) {
	// every form is a dictionary word, but "news" and "yes" are their own base
	dict := newFakeDict(map[string][]string{
		"news": nil,
		"new":  {"newer", "newest"},
		"yes":  nil,
		"ye":   nil,
		"bus":  {"buses"},
		"bu":   nil,
	})
	l := NewLemmatizer(dict)

	tests := []struct {
		in, want string
	}{
		{"news", "news"},
		{"yes", "yes"},
		{"bus", "bus"},
		{"buses", "bus"},
	}
	for _, tt := range tests {
		if got := l.Lemmatize(tt.in); got != tt.want {
			t.Errorf("Lemmatize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
