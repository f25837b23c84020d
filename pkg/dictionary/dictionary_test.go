package dictionary_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docwizard/pkg/dictionary"
	"github.com/goliatone/go-docwizard/pkg/schema"
)

func TestValue(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Казахстан":                     "казахстан",
		"Новая Зеландия":                "новая_зеландия",
		"Объединенные Арабские Эмираты": "объединенные_арабские_эмираты",
		"Усть-Каменогорск":              "усть-каменогорск",
		"Two  Spaces":                   "two_spaces",
	}
	for label, want := range cases {
		if got := dictionary.Value(label); got != want {
			t.Fatalf("Value(%q) = %q, want %q", label, got, want)
		}
	}
}

func TestDefaultLists(t *testing.T) {
	t.Parallel()

	d := dictionary.Default()
	if diff := cmp.Diff([]string{"cities", "cities_kz_reference", "countries_world"}, d.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	countries := d.Options("countries_world")
	if len(countries) != 63 {
		t.Fatalf("countries = %d, want 63", len(countries))
	}
	if diff := cmp.Diff(schema.Option{Value: "австралия", Label: "Австралия"}, countries[0]); diff != "" {
		t.Fatalf("first option mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(d.Options("cities"), d.Options("cities_kz_reference")); diff != "" {
		t.Fatalf("city aliases differ (-cities +reference):\n%s", diff)
	}
	label, ok := d.Label("cities", "алматы")
	if !ok || label != "Алматы" {
		t.Fatalf("Label = %q, %v", label, ok)
	}
}

func TestUnknownDictionaryIsEmpty(t *testing.T) {
	t.Parallel()

	got := dictionary.Default().Options("planets")
	if got == nil || len(got) != 0 {
		t.Fatalf("Options(unknown) = %#v, want empty slice", got)
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	d, err := dictionary.Decode(strings.NewReader("colors:\n  - Red Wine\n  - Blue\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []schema.Option{{Value: "red_wine", Label: "Red Wine"}, {Value: "blue", Label: "Blue"}}
	if diff := cmp.Diff(want, d.Options("colors")); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	if _, err := dictionary.Decode(strings.NewReader("colors: [")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	p := dictionary.New(map[string][]string{"sizes": {"Small"}})
	static := schema.Step{ID: "a", Options: []schema.Option{{Value: "x", Label: "X"}}, OptionsFrom: "sizes"}
	if diff := cmp.Diff(static.Options, dictionary.Resolve(p, static)); diff != "" {
		t.Fatalf("static options should win (-want +got):\n%s", diff)
	}

	from := schema.Step{ID: "b", OptionsFrom: "sizes"}
	if diff := cmp.Diff([]schema.Option{{Value: "small", Label: "Small"}}, dictionary.Resolve(p, from)); diff != "" {
		t.Fatalf("dictionary options mismatch (-want +got):\n%s", diff)
	}

	if got := dictionary.Resolve(nil, from); len(got) != 0 {
		t.Fatalf("nil provider should yield empty, got %v", got)
	}
}
