package models

import "testing"

func TestNormalizeCategoryName(t *testing.T) {
	testCases := map[string]string{
		"Food":               "food",
		"  Food  ":           "food",
		"Food   and  Drink":  "food and drink",
		"FOOD\tAND\nDRINK":   "food and drink",
		"   ":                "",
		"":                   "",
	}
	for input, want := range testCases {
		if got := NormalizeCategoryName(input); got != want {
			t.Errorf("NormalizeCategoryName(%q) = %q, want %q", input, got, want)
		}
	}
}
