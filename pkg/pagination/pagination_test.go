package pagination

import (
	"net/http/httptest"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   Page
		want Page
	}{
		{Page{}, Page{Limit: DefaultLimit}},
		{Page{Limit: -3, Offset: -10}, Page{Limit: DefaultLimit}},
		{Page{Limit: 10, Offset: 40}, Page{Limit: 10, Offset: 40}},
		{Page{Limit: MaxLimit + 50}, Page{Limit: MaxLimit}},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/equipment?limit=10&offset=30", nil)
	if got := FromRequest(r); got != (Page{Limit: 10, Offset: 30}) {
		t.Errorf("FromRequest() = %+v", got)
	}

	r = httptest.NewRequest("GET", "/equipment", nil)
	if got := FromRequest(r); got != Default() {
		t.Errorf("FromRequest() without params = %+v", got)
	}

	r = httptest.NewRequest("GET", "/equipment?limit=abc&offset=-5", nil)
	if got := FromRequest(r); got != Default() {
		t.Errorf("FromRequest() with malformed params = %+v", got)
	}
}
