package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveHandle(t *testing.T) {
	cases := []struct {
		name  string
		title string
		sku   string
		want  string
	}{
		{"title only", "Green Tea Toner", "", "green_tea_toner"},
		{"title and sku", "Green Tea Toner", "GT-01", "green_tea_toner_gt-01"},
		{"punctuation stripped", "Toner, (Refill) Pack", "", "toner_refill_pack"},
		{"no title", "", "GT-01", ""},
		{"whitespace title", "   ", "GT-01", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveHandle(tc.title, tc.sku))
		})
	}
}
