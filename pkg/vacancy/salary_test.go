package vacancy

import (
	"testing"

	"github.com/pavel-txx/hh-collector/pkg/hh"
)

func intPtr(n int) *int { return &n }

func TestFormatSalary(t *testing.T) {
	tests := []struct {
		name   string
		salary *hh.Salary
		want   string
	}{
		{
			name:   "nil_block",
			salary: nil,
			want:   "not specified",
		},
		{
			name:   "no_bounds",
			salary: &hh.Salary{Currency: "RUR"},
			want:   "not specified",
		},
		{
			name:   "both_bounds",
			salary: &hh.Salary{From: intPtr(50000), To: intPtr(70000), Currency: "RUR"},
			want:   "50000 - 70000 RUR",
		},
		{
			name:   "from_only",
			salary: &hh.Salary{From: intPtr(50000), Currency: "RUR"},
			want:   "from 50000 RUR",
		},
		{
			name:   "to_only",
			salary: &hh.Salary{To: intPtr(70000), Currency: "RUR"},
			want:   "up to 70000 RUR",
		},
		{
			name:   "from_only_empty_currency_keeps_trailing_space",
			salary: &hh.Salary{From: intPtr(50000)},
			want:   "from 50000 ",
		},
		{
			name:   "both_bounds_empty_currency_keeps_trailing_space",
			salary: &hh.Salary{From: intPtr(30000), To: intPtr(45000)},
			want:   "30000 - 45000 ",
		},
		{
			name:   "zero_is_a_value_not_absence",
			salary: &hh.Salary{From: intPtr(0), Currency: "EUR"},
			want:   "from 0 EUR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatSalary(tt.salary, "not specified")
			if got != tt.want {
				t.Errorf("FormatSalary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatSalaryUsesGivenPlaceholder(t *testing.T) {
	got := FormatSalary(nil, "не указана")
	if got != "не указана" {
		t.Errorf("FormatSalary() = %q, want %q", got, "не указана")
	}
}
