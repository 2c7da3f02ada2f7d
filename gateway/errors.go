package gateway

import "fmt"

// Error codes returned inside the gateway response envelope.
const (
	CodeSuccess          = "SUCCESSFUL"
	CodeDuplicateSafe    = "E017"
	CodePendingExecution = "E029"
)

// Error is a non-SUCCESSFUL gateway envelope. Code is stable and safe to
// branch on; Message is the gateway's human text.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway %s: %s", e.Code, e.Message)
}

// IsCode reports whether err is a gateway Error with the given code.
func IsCode(err error, code string) bool {
	ge, ok := err.(*Error)
	return ok && ge.Code == code
}
