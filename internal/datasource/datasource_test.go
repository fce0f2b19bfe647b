package datasource

import (
	"sort"
	"testing"
)

func TestGetAndFind(t *testing.T) {
	src, ok := Get("products")
	if !ok {
		t.Fatal("products source missing")
	}

	opt, ok := src.Find("bread")
	if !ok {
		t.Fatal("bread option missing")
	}
	if opt.Label != "White Bread" {
		t.Errorf("unexpected label %q", opt.Label)
	}
	if price, _ := opt.Fields["price"].(int); price != 59 {
		t.Errorf("unexpected price %v", opt.Fields["price"])
	}

	if _, ok := src.Find("caviar"); ok {
		t.Error("unexpected match for unknown value")
	}
	if _, ok := Get("unicorns"); ok {
		t.Error("unexpected match for unknown source")
	}
}

func TestKeysCoverBuiltinSources(t *testing.T) {
	keys := Keys()
	sort.Strings(keys)
	want := []string{"cities", "countries", "departments", "products", "roles"}
	if len(keys) != len(want) {
		t.Fatalf("got %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("got %v, want %v", keys, want)
		}
	}
}
