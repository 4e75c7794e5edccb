package cookie

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"prolist/pkg/list"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := list.StoredData{
		Version:    list.StoredDataVersion,
		Quantities: list.Quantities{"item-1": 2, "item-2": 7},
		PastOrders: []list.PastOrder{
			{Date: "2026-08-01T10:00:00Z", Items: []list.OrderLine{{ID: "item-1", Quantity: 2}}},
		},
		Notes: "ask about crates & pallets",
	}

	value, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.ContainsAny(value, `";, `) {
		t.Fatalf("encoded value not cookie-safe: %q", value)
	}

	out, err := Decode(value)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Quantities) != 2 || out.Quantities["item-1"] != 2 || out.Quantities["item-2"] != 7 {
		t.Fatalf("quantities mismatch: %v", out.Quantities)
	}
	if len(out.PastOrders) != 1 || out.PastOrders[0].Date != in.PastOrders[0].Date {
		t.Fatalf("past orders mismatch: %+v", out.PastOrders)
	}
	if out.Notes != in.Notes {
		t.Fatalf("notes mismatch: %q", out.Notes)
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"bad escape", "%zz"},
		{"not json", "definitely-not-json"},
		{"wrong shape", "%5B1%2C2%5D"}, // [1,2]
		{"newer version", `%7B%22version%22%3A99%7D`}, // {"version":99}
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.raw); err == nil {
				t.Fatal("expected decode error")
			}
		})
	}
}

func TestDecodeLegacyAndDefaults(t *testing.T) {
	// legacy pre-versioning payload without a version field
	out, err := Decode(`%7B%22quantities%22%3A%7B%22item-1%22%3A3%7D%7D`)
	if err != nil {
		t.Fatalf("decode legacy: %v", err)
	}
	if out.Quantities["item-1"] != 3 {
		t.Fatalf("legacy quantities mismatch: %v", out.Quantities)
	}

	// empty object defaults to an empty mapping, not nil
	out, err = Decode("%7B%7D")
	if err != nil {
		t.Fatalf("decode empty: %v", err)
	}
	if out.Quantities == nil || len(out.Quantities) != 0 {
		t.Fatalf("expected empty quantities, got %v", out.Quantities)
	}
}

func TestDecodeDropsNonPositiveQuantities(t *testing.T) {
	value, err := Encode(list.StoredData{
		Version:    list.StoredDataVersion,
		Quantities: list.Quantities{"item-1": 2, "item-2": 0, "item-3": -4},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := Decode(value)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Quantities) != 1 || out.Quantities["item-1"] != 2 {
		t.Fatalf("expected only item-1 to survive, got %v", out.Quantities)
	}
}

func TestHTTPJar(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "present", Value: "hello"})

	jar := NewHTTPJar(rec, req)
	if v, ok := jar.Get("present"); !ok || v != "hello" {
		t.Fatalf("expected present cookie, got %q %v", v, ok)
	}
	if _, ok := jar.Get("absent"); ok {
		t.Fatal("absent cookie must report false")
	}

	jar.Set(DataCookieName, "payload")
	res := rec.Result()
	var written *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == DataCookieName {
			written = c
		}
	}
	if written == nil {
		t.Fatal("expected Set-Cookie for the data cookie")
	}
	if written.Path != "/" {
		t.Fatalf("expected path /, got %q", written.Path)
	}
	if written.SameSite != http.SameSiteLaxMode {
		t.Fatal("expected SameSite=Lax")
	}
	if written.Expires.IsZero() {
		t.Fatal("expected an expiry")
	}
}
