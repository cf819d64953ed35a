package catalog

import "testing"

func TestNormalizePrice(t *testing.T) {
	cases := []struct {
		name string
		raw  *string
		want *float64
	}{
		{name: "nil", raw: nil, want: ptr(0.0)},
		{name: "empty", raw: ptr(""), want: ptr(0.0)},
		{name: "zero", raw: ptr("0"), want: ptr(0.0)},
		{name: "zero decimal", raw: ptr("0.0"), want: ptr(0.0)},
		{name: "per token to per million", raw: ptr("0.000002"), want: ptr(2.0)},
		{name: "whitespace", raw: ptr(" 0.00001 "), want: ptr(10.0)},
		{name: "unparseable", raw: ptr("free"), want: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizePrice(tc.raw)
			if tc.want == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", *got)
				}
				return
			}
			if got == nil || *got != *tc.want {
				t.Fatalf("expected %v, got %v", *tc.want, got)
			}
		})
	}
}
