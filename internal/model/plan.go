package model

// Plan is a user's subscription tier.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

const (
	FreeUploadLimit int64 = 200 * 1024 * 1024       // 200 MiB
	ProUploadLimit  int64 = 10 * 1024 * 1024 * 1024 // 10 GiB
)

// MaxUploadSize returns the single-file upload quota for a plan.
func MaxUploadSize(p Plan) int64 {
	if p == PlanPro {
		return ProUploadLimit
	}
	return FreeUploadLimit
}
