package entities

// VerificationResult is the outcome of a cryptographic check.
// Reason is set whenever Valid is false.
type VerificationResult struct {
	Scheme string
	Reason string
	Valid  bool
}

// PlausibilityResult is the outcome of a heuristic, non-cryptographic
// assessment from an external service. It carries no security weight.
type PlausibilityResult struct {
	Details     string
	Source      string
	IsAuthentic bool
}

// VerificationReport combines the authoritative cryptographic result with
// an optional plausibility assessment.
type VerificationReport struct {
	Plausibility  *PlausibilityResult
	Cryptographic VerificationResult
}
