// Package assessment compares before and after condition snapshots and
// prices the differences as penalty line items. It is a pure function of its
// inputs and never fails.
package assessment

import (
	"time"

	"biliran-rental-backend/internal/domain"
)

// Metadata is the booking context a penalty assessment needs.
type Metadata struct {
	TotalDays       int
	ScheduledReturn time.Time
	ActualReturn    time.Time
	AfterNotes      string
}

type Engine struct {
	classifier KeywordClassifier
}

// NewEngine uses the substring classifier when classifier is nil.
func NewEngine(classifier KeywordClassifier) *Engine {
	if classifier == nil {
		classifier = DefaultKeywordClassifier()
	}
	return &Engine{classifier: classifier}
}

// Assess prices the snapshot pair. If either side has nothing recorded the
// outcome is not_assessed with no line items.
func (e *Engine) Assess(before, after *domain.ConditionSnapshot, meta Metadata) domain.PenaltyReport {
	report := domain.PenaltyReport{
		Outcome:   domain.AssessmentNotAssessed,
		LineItems: []domain.PenaltyLineItem{},
	}
	if before.IsEmpty() || after.IsEmpty() {
		return report
	}

	for _, r := range rules {
		if item, ok := r(before, after, meta); ok {
			report.LineItems = append(report.LineItems, item)
			report.Total += item.Amount
		}
	}

	for _, category := range e.classifier.Classify(meta.AfterNotes) {
		if item, ok := keywordItem(category); ok {
			report.LineItems = append(report.LineItems, item)
			report.Total += item.Amount
		}
	}

	if report.Total > 0 {
		report.LineItems = append(report.LineItems, domain.PenaltyLineItem{
			Category:    domain.PenaltyAdminFee,
			Description: "Administration fee",
			Amount:      AdminFee,
		})
		report.Total += AdminFee
		report.Outcome = domain.AssessmentAssessedWithDamage
	} else {
		report.Outcome = domain.AssessmentAssessedNoDamage
	}
	return report
}
