package odata

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestPayloadOrdering(t *testing.T) {
	pl := NewPayload()
	pl.Set("b", 1)
	pl.Set("a", 2)
	pl.Set("c", nil)
	pl.Set("b", 42) // overwrite keeps the original position

	if got, want := pl.Keys(), []string{"b", "a", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() == %v, wanted %v", got, want)
	}

	raw, err := json.Marshal(pl)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(raw), `{"b":42,"a":2,"c":null}`; got != want {
		t.Fatalf("marshal == %s, wanted %s", got, want)
	}
}

func TestPayloadDelete(t *testing.T) {
	pl := NewPayload()
	pl.Set("a", 1)
	pl.Set("b", 2)
	pl.Set("c", 3)
	pl.Delete("b")
	pl.Delete("missing")

	if pl.Has("b") {
		t.Fatalf("deleted key still present")
	}
	if got, want := pl.Keys(), []string{"a", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() == %v, wanted %v", got, want)
	}
	if got := pl.Len(); got != 2 {
		t.Fatalf("Len() == %d, wanted 2", got)
	}

	// re-adding a deleted key appends it at the end
	pl.Set("b", 9)
	if got, want := pl.Keys(), []string{"a", "c", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() after re-add == %v, wanted %v", got, want)
	}
}

func TestPayloadMarshalEmpty(t *testing.T) {
	raw, err := json.Marshal(NewPayload())
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "{}" {
		t.Fatalf("marshal == %s, wanted {}", raw)
	}
}

func TestPayloadMarshalNested(t *testing.T) {
	sub := NewPayload()
	sub.Set("Name", "inner")

	pl := NewPayload()
	pl.Set("Child", sub)
	pl.Set("Children", []*Payload{sub})
	pl.Set("Binds", []string{"Things(1)", "Things(2)"})

	raw, err := json.Marshal(pl)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"Child":{"Name":"inner"},"Children":[{"Name":"inner"}],"Binds":["Things(1)","Things(2)"]}`
	if string(raw) != want {
		t.Fatalf("marshal == %s, wanted %s", raw, want)
	}
}
