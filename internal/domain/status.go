package domain

// SKU buckets derived from the grade segment.
const (
	BucketSellable = "sellable"
	BucketIntake   = "intake"
	BucketFailed   = "failed"
)

// Health buckets for the inventory view, worst first.
const (
	HealthDead        = "dead"
	HealthCritical    = "critical"
	HealthLow         = "low"
	HealthHealthy     = "healthy"
	HealthOverstocked = "overstocked"
)

// Reorder urgency tiers.
const (
	UrgencyCritical = "CRITICAL"
	UrgencyUrgent   = "URGENT"
	UrgencyLow      = "LOW"
)

// Temperature trends.
const (
	TrendHot     = "HOT"
	TrendRising  = "RISING"
	TrendFalling = "FALLING"
	TrendStable  = "STABLE"
	TrendDead    = "DEAD"
)

// Reprice statuses.
const (
	RepriceDead = "DEAD"
	RepriceSlow = "SLOW"
)

// Product categories derived from the SKU prefix.
const (
	CategoryPhone     = "Phone"
	CategoryTablet    = "Tablet"
	CategoryLaptop    = "Laptop"
	CategoryAccessory = "Accessory"
	CategoryOther     = "Other"
)

// GradeIntake marks inventory still being processed at intake.
const GradeIntake = "INTAKE"
