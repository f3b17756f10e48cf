// Package services – budget validation.
//
// The buyer pipeline consults these checks before a purchase request is
// enqueued. The figures are a static snapshot of the company's approval
// hierarchy and procurement budget; a finance system integration would
// replace getCompanyData.
package services

import "sort"

// ApprovalLevel pairs a named approver with the maximum amount they can
// sign off.
type ApprovalLevel struct {
	Level string  `json:"level"`
	Limit float64 `json:"limit"`
}

// BudgetReport is the structured result of a budget check.
type BudgetReport struct {
	AmountRequested float64 `json:"amount_requested"`
	AnnualBudget    float64 `json:"annual_budget"`
	SpentYTD        float64 `json:"spent_ytd"`
	Remaining       float64 `json:"remaining"`
	UtilizationRate float64 `json:"utilization_rate"`
	WithinBudget    bool    `json:"within_budget"`
	RequiredLevel   string  `json:"required_approval_level"`
	AutoApproved    bool    `json:"auto_approved"`
}

type companyData struct {
	annualBudget       float64
	procurementBudget  float64
	procurementSpent   float64
	approvalHierarchy  map[string]float64
	autoApprovalCutoff float64
}

func getCompanyData() companyData {
	return companyData{
		annualBudget:      5_000_000,
		procurementBudget: 2_000_000,
		procurementSpent:  1_100_000,
		approvalHierarchy: map[string]float64{
			"department_manager": 25_000,
			"director":           100_000,
			"vp":                 250_000,
			"cfo":                500_000,
			"ceo":                1_000_000,
			"board":              5_000_000,
		},
		autoApprovalCutoff: 5_000_000,
	}
}

// ApprovalLevels returns the approval hierarchy ordered by ascending limit.
func ApprovalLevels() []ApprovalLevel {
	data := getCompanyData()
	out := make([]ApprovalLevel, 0, len(data.approvalHierarchy))
	for level, limit := range data.approvalHierarchy {
		out = append(out, ApprovalLevel{Level: level, Limit: limit})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Limit < out[j].Limit })
	return out
}

// ApprovalFor returns the lowest approval level whose limit covers amount,
// and whether the amount auto-approves within the annual budget. Amounts
// above every limit require board approval.
func ApprovalFor(amount float64) (string, bool) {
	data := getCompanyData()
	level := "board"
	for _, al := range ApprovalLevels() {
		if amount <= al.Limit {
			level = al.Level
			break
		}
	}
	return level, amount <= data.autoApprovalCutoff
}

// BudgetCheck reports the procurement budget position for amount.
func BudgetCheck(amount float64) BudgetReport {
	data := getCompanyData()
	remaining := data.procurementBudget - data.procurementSpent
	level, auto := ApprovalFor(amount)
	return BudgetReport{
		AmountRequested: amount,
		AnnualBudget:    data.procurementBudget,
		SpentYTD:        data.procurementSpent,
		Remaining:       remaining,
		UtilizationRate: data.procurementSpent / data.procurementBudget * 100,
		WithinBudget:    amount <= remaining,
		RequiredLevel:   level,
		AutoApproved:    auto,
	}
}
