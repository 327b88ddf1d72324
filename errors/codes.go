package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E4xxx: Internal errors raised while assembling bytecode
type ErrorCode string

const (
	E4001 ErrorCode = "E4001" // Stack underflow
	E4002 ErrorCode = "E4002" // Empty program
	E4003 ErrorCode = "E4003" // Not an assignment
	E4004 ErrorCode = "E4004" // Unknown instruction
	E4005 ErrorCode = "E4005" // Invalid arity
	E4006 ErrorCode = "E4006" // Verification failed
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E4001: "stack underflow",
	E4002: "empty program",
	E4003: "not an assignment",
	E4004: "unknown instruction",
	E4005: "invalid arity",
	E4006: "verification failed",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '4':
		return "internal"
	default:
		return "unknown"
	}
}
