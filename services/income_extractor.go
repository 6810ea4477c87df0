package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	nameRegex   = regexp.MustCompile(`Name:\s*([A-Za-z\s]+)`)
	incomeRegex = regexp.MustCompile(`Income:\s*(?:Rs\.?\s*|₹\s*|\$)?([\d,]+)`)
)

// IncomeRecord is the pair of fields extracted from an income certificate
type IncomeRecord struct {
	Name   string  `json:"name"`
	Income float64 `json:"income"`
}

// ExtractIncomeRecord pulls the holder name and annual income out of the
// text of an income-certificate PDF. Returns an error when either field
// is missing so the caller can log and skip the document.
func ExtractIncomeRecord(text string) (*IncomeRecord, error) {
	nameMatch := nameRegex.FindStringSubmatch(text)
	if nameMatch == nil {
		return nil, fmt.Errorf("no name field found")
	}

	incomeMatch := incomeRegex.FindStringSubmatch(text)
	if incomeMatch == nil {
		return nil, fmt.Errorf("no income field found")
	}

	name := strings.TrimSpace(nameMatch[1])
	if name == "" {
		return nil, fmt.Errorf("empty name field")
	}

	// Strip thousands separators before parsing
	raw := strings.ReplaceAll(incomeMatch[1], ",", "")
	income, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid income value %q: %w", incomeMatch[1], err)
	}

	return &IncomeRecord{Name: name, Income: income}, nil
}
