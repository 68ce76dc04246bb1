package shared

// DomainError carries a stable machine-readable code alongside a human
// message so the HTTP layer can map failures without string matching.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string { return e.Message }

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Sentinel errors shared across the domain packages. Compare with errors.Is
// or unwrap with errors.As at the boundary.
var (
	ErrNotFound            = &DomainError{Code: "NOT_FOUND", Message: "Resource not found"}
	ErrAlreadyExists       = &DomainError{Code: "ALREADY_EXISTS", Message: "Resource already exists"}
	ErrInvalidInput        = &DomainError{Code: "INVALID_INPUT", Message: "Invalid input provided"}
	ErrInvalidState        = &DomainError{Code: "INVALID_STATE", Message: "Operation not allowed in current state"}
	ErrUpstreamUnavailable = &DomainError{Code: "UPSTREAM_UNAVAILABLE", Message: "A storage collaborator is unavailable"}
)
