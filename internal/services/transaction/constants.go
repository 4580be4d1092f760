package transaction

// Default configuration values
const (
	DefaultTransactionLimit = "10000.00"
	DescriptionMaxLength    = 100
)
