package model

// Credentials holds a generated game-account login pair.
type Credentials struct {
	AccountID string
	Password  string
}

// DeliveryMethod tags which persistence strategy ultimately succeeded for a
// delivery attempt, so callers can distinguish degraded outcomes.
type DeliveryMethod string

const (
	DeliveryMethodServerless DeliveryMethod = "serverless"
	DeliveryMethodDirect     DeliveryMethod = "direct"
	DeliveryMethodMetadata   DeliveryMethod = "metadata"
	DeliveryMethodMinimal    DeliveryMethod = "minimal"
	DeliveryMethodToastOnly  DeliveryMethod = "toast_only"
)
