package httpcore

import "testing"

// TestFieldStoreAggregatesRepeatedHeader covers spec scenario 5: two Accept
// lines aggregate into one ordered elements list.
func TestFieldStoreAggregatesRepeatedHeader(t *testing.T) {
	store := NewFieldStore()
	store.Add("Accept", "text/plain")
	store.Add("accept", "text/html;q=0.8")

	field, ok := store.Get("ACCEPT")
	if !ok {
		t.Fatal("expected Accept field to exist")
	}
	elems := field.Elements(DefaultConfig())
	if len(elems) != 2 {
		t.Fatalf("got %+v", elems)
	}
	if elems[0].Value != "text/plain" {
		t.Errorf("elems[0] = %+v", elems[0])
	}
	if elems[1].Value != "text/html" {
		t.Errorf("elems[1] = %+v", elems[1])
	}
	q, found := elems[1].Param("q")
	if !found || q.Value != "0.8" {
		t.Errorf("q param = %+v found=%v", q, found)
	}
}

func TestFieldDowngradeKeepsRaw(t *testing.T) {
	store := NewFieldStore()
	store.Add("X", "a b")

	field, _ := store.Get("x")
	cfg := DefaultConfig()
	if got := field.Raw(cfg); len(got) != 1 || got[0] != "a b" {
		t.Fatalf("Raw = %+v", got)
	}
	if got := field.Elements(cfg); len(got) != 0 {
		t.Fatalf("Elements = %+v, want empty", got)
	}
}

func TestFieldConcat(t *testing.T) {
	store := NewFieldStore()
	store.Add("X-Forwarded-For", "1.1.1.1")
	store.Add("x-forwarded-for", "2.2.2.2")

	field, _ := store.Get("X-Forwarded-For")
	if got := field.Concat(", ", DefaultConfig()); got != "1.1.1.1, 2.2.2.2" {
		t.Errorf("Concat = %q", got)
	}
}

func TestFieldStoreCaseInsensitive(t *testing.T) {
	store := NewFieldStore()
	store.Add("Content-Type", "text/plain")
	if !store.Has("content-type") || !store.Has("CONTENT-TYPE") {
		t.Error("expected case-insensitive Has")
	}
	if names := store.Names(); len(names) != 1 || names[0] != "content-type" {
		t.Errorf("Names = %+v", names)
	}
}

func TestFieldFindElements(t *testing.T) {
	store := NewFieldStore()
	store.Add("Accept-Encoding", "gzip, br, gzip")
	field, _ := store.Get("Accept-Encoding")
	if found := field.FindElements("gzip", DefaultConfig()); len(found) != 2 {
		t.Fatalf("FindElements = %+v", found)
	}
	if !field.ContainsValue("br", DefaultConfig()) {
		t.Error("expected ContainsValue br")
	}
}
