package pagination

import (
	"net/http/httptest"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", 0, 0, DefaultLimit, 0},
		{"negative limit", -5, 0, DefaultLimit, 0},
		{"over max", 500, 0, MaxLimit, 0},
		{"negative offset", 10, -3, 10, 0},
		{"passthrough", 50, 40, 50, 40},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Normalize(tc.limit, tc.offset)
			if p.Limit != tc.wantLimit || p.Offset != tc.wantOffset {
				t.Fatalf("Normalize(%d, %d) = %+v, want limit=%d offset=%d",
					tc.limit, tc.offset, p, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/movimientos?limit=30&offset=10", nil)
	p := FromRequest(r)
	if p.Limit != 30 || p.Offset != 10 {
		t.Fatalf("unexpected page: %+v", p)
	}

	r = httptest.NewRequest("GET", "/movimientos?limit=abc&offset=", nil)
	p = FromRequest(r)
	if p.Limit != DefaultLimit || p.Offset != 0 {
		t.Fatalf("expected defaults for malformed params, got %+v", p)
	}
}
