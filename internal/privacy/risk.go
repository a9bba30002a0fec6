// Package privacy holds the one-way anonymization of assessments and chat
// sessions, the retention rule and the at-rest sealing of answers.
package privacy

import (
	"wellbuddie/internal/assessment/models"
)

// RiskLevel is the three-band label attached to anonymized assessments.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// RiskLevels lists the labels in ascending order.
func RiskLevels() []RiskLevel { return []RiskLevel{RiskLow, RiskModerate, RiskHigh} }

// RiskLevelOf collapses the severity bands: Minimal is low, Mild and
// Moderate are moderate, Severe is high.
func RiskLevelOf(total int, instrument models.InstrumentID) RiskLevel {
	switch models.BucketOf(total, instrument) {
	case models.BucketMinimal:
		return RiskLow
	case models.BucketMild, models.BucketModerate:
		return RiskModerate
	default:
		return RiskHigh
	}
}
