package services

import "testing"

func TestExtractIncomeRecord(t *testing.T) {
	text := `Government of Maharashtra
Income Certificate

Name: Asha Verma
Father Name: Suresh Verma
Income: Rs. 2,50,000 per annum
Issued by the Tahsildar office`

	record, err := ExtractIncomeRecord(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Name != "Asha Verma" {
		t.Errorf("name = %q, want %q", record.Name, "Asha Verma")
	}
	if record.Income != 250000 {
		t.Errorf("income = %v, want 250000", record.Income)
	}
}

func TestExtractIncomeRecordCurrencyVariants(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"Name: Ravi Kumar\nIncome: 180000", 180000},
		{"Name: Ravi Kumar\nIncome: Rs 1,80,000", 180000},
		{"Name: Ravi Kumar\nIncome: ₹ 95,000", 95000},
		{"Name: Ravi Kumar\nIncome: $12,000", 12000},
	}

	for _, tc := range cases {
		record, err := ExtractIncomeRecord(tc.text)
		if err != nil {
			t.Errorf("ExtractIncomeRecord(%q) error: %v", tc.text, err)
			continue
		}
		if record.Income != tc.want {
			t.Errorf("ExtractIncomeRecord(%q) income = %v, want %v", tc.text, record.Income, tc.want)
		}
	}
}

func TestExtractIncomeRecordMissingFields(t *testing.T) {
	if _, err := ExtractIncomeRecord("Income: Rs. 50,000"); err == nil {
		t.Error("expected error when name is missing")
	}
	if _, err := ExtractIncomeRecord("Name: Asha Verma"); err == nil {
		t.Error("expected error when income is missing")
	}
	if _, err := ExtractIncomeRecord(""); err == nil {
		t.Error("expected error on empty text")
	}
}
