package extract

import (
	"strings"

	"github.com/lbelectronica/sheetseed/pkg/sheetseed/models"
)

// Expense sheet layout (1-based columns).
const (
	expenseColLabel  = 1
	expenseColAmount = 5
)

// Section labels that head or total a block of expenses.
var expenseSummaryLabels = []string{"FUNCIONARIOS", "GASTOS Y COSTOS FIJOS"}

// ExtractExpenses reads the fixed expenses sheet, dropping totals and
// section headings.
func ExtractExpenses(rows [][]string) []models.ExpenseRecord {
	out := []models.ExpenseRecord{}
	for _, r := range rows {
		label := cell(r, expenseColLabel)
		amount := number(r, expenseColAmount)
		if label == "" || amount == nil || *amount <= 0 {
			continue
		}
		if isTotal(label) || isLabel(label, expenseSummaryLabels) {
			continue
		}

		out = append(out, models.ExpenseRecord{
			Reason: label,
			Amount: *amount,
			Type:   models.ExpenseType,
		})
	}
	return out
}

func isTotal(label string) bool {
	return strings.HasPrefix(strings.ToUpper(label), "TOTAL")
}
