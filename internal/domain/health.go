package domain

// ============================================================
// Health & Metrics API responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual collaborator.
type ServiceHealth struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	LatencyMs int64  `json:"latencyMs"`
}

// ClaimsMetrics is returned by GET /v1/metrics/claims: a cumulative
// snapshot of lifecycle activity since process start.
type ClaimsMetrics struct {
	ClaimsCreated       int64   `json:"claimsCreated"`
	ClaimsApproved      int64   `json:"claimsApproved"`
	ClaimsRejected      int64   `json:"claimsRejected"`
	ClaimsSettled       int64   `json:"claimsSettled"`
	RejectedTransitions int64   `json:"rejectedTransitions"`
	StoreErrors         int64   `json:"storeErrors"`
	CacheHitRate        float64 `json:"cacheHitRate"`
	Period              string  `json:"period"`
}

// SeedResult is returned by the dev seed endpoint.
type SeedResult struct {
	CustomerIDs []int64 `json:"customerIds"`
	PolicyIDs   []int64 `json:"policyIds"`
	ClaimIDs    []int64 `json:"claimIds"`
}
