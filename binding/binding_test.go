package binding

import (
	"errors"
	"testing"
)

func sample() any {
	return map[string]any{
		"user": map[string]any{"name": "Ada", "age": float64(36)},
		"items": []any{
			map[string]any{"title": "first"},
			map[string]any{"title": "second", "tags": []string{"x", "y"}},
		},
		"labels": map[string]string{"ok": "done"},
		"ratio":  0.25,
	}
}

func TestInterpolate(t *testing.T) {
	cases := map[string]string{
		"Hello, ${user.name}!":     "Hello, Ada!",
		"${ user.age } years":      "36 years",
		"${items[1].title}":        "second",
		"${items[1].tags[0]}":      "x",
		"${labels.ok}":             "done",
		"${ratio}":                 "0.25",
		"${user.nick|guest}":       "guest",
		"${user.name|guest}":       "Ada",
		"${missing}":               "${missing}",
		"${items[9].title}":        "${items[9].title}",
		"${items[x].title}":        "${items[x].title}",
		"cost: $${user.name}":      "cost: ${user.name}",
		"no placeholders":          "no placeholders",
		"${user.name}${user.name}": "AdaAda",
	}
	for in, want := range cases {
		if got := Interpolate(in, sample()); got != want {
			t.Fatalf("Interpolate(%q) = %q, want %q", in, got, want)
		}
	}
	if got := Interpolate("${a|b}", nil); got != "b" {
		t.Fatalf("default should apply without data, got %q", got)
	}
}

func TestExpandReportsMissing(t *testing.T) {
	out, err := Expand("${user.name} ${nope} ${gone}", sample())
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved, got %v", err)
	}
	if out != "Ada ${nope} ${gone}" {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := Expand("${user.name|x} ${nope|y}", sample()); err != nil {
		t.Fatalf("defaults should satisfy strict expansion: %v", err)
	}
}

func TestResolve(t *testing.T) {
	if v, ok := Resolve(sample(), "items[0]"); !ok || v.(map[string]any)["title"] != "first" {
		t.Fatalf("Resolve items[0] = %v, %v", v, ok)
	}
	for _, path := range []string{"", "user.", "user.name.first", "items[0", "items]["} {
		if _, ok := Resolve(sample(), path); ok {
			t.Fatalf("Resolve(%q) should fail", path)
		}
	}
}
