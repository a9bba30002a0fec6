package privacy

import (
	"fmt"

	"wellbuddie/internal/platform/config"
)

// ComplianceReport is the public summary of how collected data is handled.
type ComplianceReport struct {
	DataRetentionPolicy   string `json:"data_retention_policy"`
	// AnonymizationDelay is always AnonymizedAtSubmission. The configured
	// hours are reported as a deadline.
	AnonymizationDelay    string `json:"anonymization_delay"`
	AnonymizationDeadline string `json:"anonymization_deadline"`
	EncryptionStatus      string `json:"encryption_status"`
	RetentionDays         int    `json:"retention_days"`
	DeadlineHours         int    `json:"anonymization_deadline_hours"`
	PurgeSchedule         string `json:"purge_schedule"`
}

// AnonymizedAtSubmission is the reported anonymization delay.
const AnonymizedAtSubmission = "none (anonymized at submission)"

// Encryption status labels.
const (
	EncryptionEnabled  = "enabled"
	EncryptionDisabled = "disabled"
)

// NewComplianceReport describes the effective privacy configuration.
func NewComplianceReport(cfg config.PrivacyConfig, sealing bool) ComplianceReport {
	status := EncryptionDisabled
	if sealing {
		status = EncryptionEnabled
	}
	return ComplianceReport{
		DataRetentionPolicy:   pluralize(cfg.RetentionDays, "day"),
		AnonymizationDelay:    AnonymizedAtSubmission,
		AnonymizationDeadline: "within " + pluralize(cfg.AnonymizationDeadlineHours, "hour"),
		EncryptionStatus:      status,
		RetentionDays:         cfg.RetentionDays,
		DeadlineHours:         cfg.AnonymizationDeadlineHours,
		PurgeSchedule:         "every " + cfg.SweepInterval.String(),
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
