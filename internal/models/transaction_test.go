package models

import "testing"

func TestNormalizeSign(t *testing.T) {
	source, destination := uint(1), uint(2)
	tr := Transaction{
		SourceAccountID:      &source,
		DestinationAccountID: &destination,
		Total:                -100,
		Lines: []TransactionLine{
			{Amount: -120},
			{Amount: 20},
		},
	}
	tr.NormalizeSign()
	if tr.Total != 100 {
		t.Errorf("Total = %d, want 100", tr.Total)
	}
	if *tr.SourceAccountID != destination || *tr.DestinationAccountID != source {
		t.Errorf("accounts not swapped: source = %d, destination = %d",
			*tr.SourceAccountID, *tr.DestinationAccountID)
	}
	if tr.Lines[0].Amount != 120 || tr.Lines[1].Amount != -20 {
		t.Errorf("lines not negated: %d, %d", tr.Lines[0].Amount, tr.Lines[1].Amount)
	}

	// Non-negative totals are untouched.
	tr2 := Transaction{SourceAccountID: &source, Total: 100}
	tr2.NormalizeSign()
	if tr2.Total != 100 || *tr2.SourceAccountID != source {
		t.Error("positive transaction should not change")
	}
}

func TestTransactionValidate(t *testing.T) {
	source, destination := uint(1), uint(2)
	testCases := []struct {
		name string
		tr   Transaction
		want error
	}{
		{"no accounts", Transaction{Total: 10}, ErrNoAccounts},
		{"same accounts", Transaction{SourceAccountID: &source, DestinationAccountID: &source, Total: 10}, ErrSameAccounts},
		{"line sum mismatch", Transaction{SourceAccountID: &source, Total: 100, Lines: []TransactionLine{{Amount: 90}}}, ErrLineSumMismatch},
		{"negative total", Transaction{SourceAccountID: &source, Total: -1}, ErrNegativeTotal},
		{"valid split", Transaction{SourceAccountID: &source, DestinationAccountID: &destination, Total: 100, Lines: []TransactionLine{{Amount: 120}, {Amount: -20}}}, nil},
		{"valid without lines", Transaction{SourceAccountID: &source, Total: 0}, nil},
	}
	for _, tc := range testCases {
		if got := tc.tr.Validate(); got != tc.want {
			t.Errorf("%s: Validate() = %v, want %v", tc.name, got, tc.want)
		}
	}
}
