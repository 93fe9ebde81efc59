package dto

import "github.com/pentasign/pentasign-sdk/signing/entities"

// VerificationResultDTO is the wire form of a cryptographic check.
type VerificationResultDTO struct {
	Scheme string `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Valid  bool   `json:"valid" yaml:"valid"`
}

// PlausibilityResultDTO mirrors the external verifier's contract.
type PlausibilityResultDTO struct {
	VerificationDetails string `json:"verificationDetails" yaml:"verificationDetails"`
	Source              string `json:"source,omitempty" yaml:"source,omitempty"`
	IsAuthentic         bool   `json:"isAuthentic" yaml:"isAuthentic"`
}

// VerificationReportDTO is the wire form of a verification report.
type VerificationReportDTO struct {
	Plausibility  *PlausibilityResultDTO `json:"plausibility,omitempty" yaml:"plausibility,omitempty"`
	Cryptographic VerificationResultDTO  `json:"cryptographic" yaml:"cryptographic"`
}

// FromReport converts a domain report to its wire form.
func FromReport(r *entities.VerificationReport) *VerificationReportDTO {
	if r == nil {
		return nil
	}
	out := &VerificationReportDTO{
		Cryptographic: VerificationResultDTO{
			Scheme: r.Cryptographic.Scheme,
			Reason: r.Cryptographic.Reason,
			Valid:  r.Cryptographic.Valid,
		},
	}
	if r.Plausibility != nil {
		out.Plausibility = &PlausibilityResultDTO{
			VerificationDetails: r.Plausibility.Details,
			Source:              r.Plausibility.Source,
			IsAuthentic:         r.Plausibility.IsAuthentic,
		}
	}
	return out
}
