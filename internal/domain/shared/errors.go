package shared

// DomainError is a business-rule violation. Code is a stable machine
// identifier the HTTP layer maps to a status; Message is for humans.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Sentinel errors shared across contexts. Aggregates raise more specific
// codes (EXCEEDS_PENDING, ALREADY_PAID) for rules the client can act on.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrForbidden           = NewDomainError("OPERATION_FORBIDDEN", "Operation is not permitted on this resource")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")

	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrExceedsPending    = NewDomainError("EXCEEDS_PENDING", "Quantity exceeds pending quantity")
	ErrAlreadyPaid       = NewDomainError("ALREADY_PAID", "Bill is already fully paid")
)
