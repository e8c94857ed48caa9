package framework

const (
	// SuccessCode is the code carried by Success.
	SuccessCode = 0
	// FailureCode is the conventional generic failure code.
	FailureCode = -1
)

// Success is the result of a structural match that needs no action.
var Success = Result{Code: SuccessCode, Message: "Success"}

// Result is the immutable outcome of a parse: a code chosen by the command
// author and a message. Only SuccessCode has a meaning for the matcher.
type Result struct {
	Code    int
	Message string
}

// NewResult returns a Result with provided code and message.
func NewResult(code int, message string) Result {
	return Result{Code: code, Message: message}
}

// IsSuccess reports whether the result carries SuccessCode.
func (r Result) IsSuccess() bool {
	return r.Code == SuccessCode
}

func (r Result) String() string {
	return r.Message
}
