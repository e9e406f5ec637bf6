package constants

const (
	// DefaultLimit is the number of records returned when the limit query
	// parameter is absent.
	DefaultLimit = 100

	// ContextKeyRequestID is the gin context key holding the request ID.
	ContextKeyRequestID = "request_id"
)
