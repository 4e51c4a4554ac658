package sparkpost

import "errors"

// Domain errors for the SparkPost adapter, designed for classification
// with errors.Is. Detailed context is wrapped around these identities.
var (
	ErrInvalidConfig = errors.New("invalid sparkpost configuration")
	ErrSendFailed    = errors.New("sparkpost send failed")
)
