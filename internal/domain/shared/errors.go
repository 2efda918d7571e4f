package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so wrapped copies of
// the common errors still match errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Recurso não encontrado")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Recurso já existe")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Dados de entrada inválidos")
	ErrUnauthorized  = NewDomainError("UNAUTHORIZED", "Não autenticado")
	ErrForbidden     = NewDomainError("FORBIDDEN", "Acesso negado")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operação não permitida no estado atual")
	ErrInFlight      = NewDomainError("IN_FLIGHT", "Operação idêntica já em andamento")
)
