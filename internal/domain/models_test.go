package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFlexRoundTripKeepsKind(t *testing.T) {
	tests := []struct {
		name string
		in   Flex
		want string
	}{
		{"string", String("Test Store"), `"Test Store"`},
		{"integer", Int(123), `123`},
		{"decimal", Number(12.01), `12.01`},
		{"numeric string", String("123"), `"123"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(raw) != tt.want {
				t.Fatalf("Marshal = %s, want %s", raw, tt.want)
			}
			var back Flex
			if err := json.Unmarshal(raw, &back); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !back.Equal(tt.in) {
				t.Fatalf("round trip changed value: %v -> %v", tt.in, back)
			}
		})
	}
}

func TestFlexRejectsCompositeValues(t *testing.T) {
	var f Flex
	if err := json.Unmarshal([]byte(`{"a":1}`), &f); err == nil {
		t.Fatalf("expected error for object value")
	}
	if err := json.Unmarshal([]byte(`null`), &f); err != nil || !f.IsZero() {
		t.Fatalf("null should decode to zero value, got %v err=%v", f, err)
	}
}

func TestFlexDistinguishesStringFromNumber(t *testing.T) {
	if String("123").Equal(Int(123)) {
		t.Fatalf("string and number must not compare equal")
	}
	if s, ok := String("x").Str(); !ok || s != "x" {
		t.Fatalf("Str() = %q, %v", s, ok)
	}
	if _, ok := String("x").Num(); ok {
		t.Fatalf("Num() should report false for strings")
	}
}

func TestItemOmitsZeroFieldsForPartialUpdates(t *testing.T) {
	raw, err := json.Marshal(Store{Name: String("Renamed"), Lat: Int(5)})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != `{"name":"Renamed","lat":5}` {
		t.Fatalf("unexpected patch body %s", raw)
	}
}

func TestItemIDAcceptsNumbersAndStrings(t *testing.T) {
	var p Product
	if err := json.Unmarshal([]byte(`{"id":43900,"name":"Duracell"}`), &p); err != nil {
		t.Fatalf("Unmarshal product: %v", err)
	}
	if p.ID != "43900" {
		t.Fatalf("numeric id decoded as %q", p.ID)
	}

	var c Category
	if err := json.Unmarshal([]byte(`{"id":"abcat0010000","name":"Gift Ideas"}`), &c); err != nil {
		t.Fatalf("Unmarshal category: %v", err)
	}
	if c.ID != "abcat0010000" {
		t.Fatalf("string id decoded as %q", c.ID)
	}
}

func TestAPIErrorDecodesBothErrorShapes(t *testing.T) {
	var notFound APIError
	raw := `{"name":"NotFound","message":"No record found for id '0'","code":404,"className":"not-found","errors":{}}`
	if err := json.Unmarshal([]byte(raw), &notFound); err != nil {
		t.Fatalf("Unmarshal not found: %v", err)
	}
	if notFound.Message != NotFoundMessage("0") || len(notFound.Errors) != 0 {
		t.Fatalf("unexpected envelope %+v", notFound)
	}

	var bad APIError
	raw = `{"name":"BadRequest","message":"Invalid Parameters","code":400,"className":"bad-request","errors":["'name' should be string","'lat' should be number"]}`
	if err := json.Unmarshal([]byte(raw), &bad); err != nil {
		t.Fatalf("Unmarshal bad request: %v", err)
	}
	if len(bad.Errors) != 2 || bad.Errors[1] != "'lat' should be number" {
		t.Fatalf("unexpected errors %v", bad.Errors)
	}
	if !strings.Contains(bad.Error(), "Invalid Parameters") {
		t.Fatalf("Error() = %s", bad.Error())
	}
}

func TestPageDecodesEnvelope(t *testing.T) {
	var page Page[Service]
	raw := `{"total":21,"limit":2,"skip":0,"data":[{"id":1,"name":"Geek Squad Services"},{"id":2,"name":"Best Buy Mobile"}]}`
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if page.Total != 21 || page.Limit != 2 || len(page.Data) != 2 {
		t.Fatalf("unexpected page %+v", page)
	}
	if name, _ := page.Data[1].Name.Str(); name != "Best Buy Mobile" {
		t.Fatalf("unexpected item name %q", name)
	}
}
