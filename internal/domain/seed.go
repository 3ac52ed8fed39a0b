package domain

import (
	"time"

	"github.com/google/uuid"
)

// defaultTemplate is one entry in the built-in business template set.
type defaultTemplate struct {
	title       string
	description string
	category    Category
	priority    Priority
	day         int
}

// defaultTemplates is the standing month-end and monthly close checklist.
// Month-end entries are staggered across the first working days of the
// month; monthly entries anchor to their recurring deadline day.
var defaultTemplates = []defaultTemplate{
	// Month end, day 1
	{"Online Bookings - UK", "Process and reconcile UK online bookings for month end", CategoryMonthEndPhorest, PriorityHigh, 1},
	{"Online Bookings - Ireland", "Process and reconcile Irish online bookings for month end", CategoryMonthEndPhorest, PriorityHigh, 1},
	{"Online Bookings - US", "Process and reconcile US online bookings for month end", CategoryMonthEndPhorest, PriorityHigh, 1},
	{"TSE Amortization", "Calculate and process TSE amortization entries", CategoryMonthEndPhorest, PriorityMedium, 1},
	{"Fiskaltrust Amortization", "Process Fiskaltrust amortization calculations", CategoryMonthEndPhorest, PriorityMedium, 1},
	{"12 Month Subscription Amortization", "Calculate and process 12-month subscription amortization", CategoryMonthEndPhorest, PriorityMedium, 1},
	{"Prepayment Run Batch 1", "Execute first batch of prepayment processing", CategoryMonthEndPhorest, PriorityHigh, 1},
	{"Fixed Assets", "Review and update fixed assets register", CategoryMonthEndPhorest, PriorityMedium, 1},
	{"Stripe Invoice Reallocation", "Reallocate Stripe invoices and reconcile payments", CategoryMonthEndPhorest, PriorityHigh, 1},

	// Month end, day 2
	{"SMS Accrual DDI & Plan", "Process SMS accruals for DDI and Plan services", CategoryMonthEndPhorest, PriorityMedium, 2},
	{"Subs Pro Rata Accrual", "Calculate and process subscription pro rata accruals", CategoryMonthEndPhorest, PriorityMedium, 2},
	{"Prepayment Batch 2", "Execute second batch of prepayment processing", CategoryMonthEndPhorest, PriorityHigh, 2},

	// Month end, days 3-4
	{"Analysis for Month End Meeting", "Prepare comprehensive analysis and reports for month end meeting", CategoryMonthEndPhorest, PriorityUrgent, 3},
	{"Action Points from Analysis", "Review analysis results and create action points for follow-up", CategoryMonthEndPhorest, PriorityHigh, 4},

	// Monthly recurring
	{"Debtors Reconciliation", "Complete debtors reconciliation and review outstanding amounts", CategoryPhorestMonthly, PriorityHigh, 10},
	{"Fixed Assets Reconciliation", "Reconcile fixed assets register and verify depreciation", CategoryPhorestMonthly, PriorityMedium, 15},
	{"Receipts Processing", "Process and reconcile all receipts for the month", CategoryPhorestMonthly, PriorityMedium, 23},
	{"VAT Control Accounts", "Review and reconcile VAT control accounts", CategoryPhorestMonthly, PriorityHigh, 10},
	{"Prepayment Control Accounts", "Reconcile prepayment control accounts and verify balances", CategoryPhorestMonthly, PriorityMedium, 8},
	{"German VAT Submission", "Prepare and submit German VAT return (monthly)", CategoryPhorestMonthly, PriorityUrgent, 7},
}

// DefaultTemplates returns the built-in business template set as fresh
// TaskTemplate values, each call with new IDs and timestamps.
func DefaultTemplates() []*TaskTemplate {
	now := time.Now().UTC()
	out := make([]*TaskTemplate, 0, len(defaultTemplates))
	for _, d := range defaultTemplates {
		out = append(out, &TaskTemplate{
			ID:            uuid.New(),
			Title:         d.title,
			Description:   d.description,
			Category:      d.category,
			Priority:      d.priority,
			DueDayOfMonth: d.day,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return out
}
