package errors

// ErrorInfo contains detailed error information
type ErrorInfo struct {
	Code    string `json:"code"`              // Business error code, e.g., "INVALID_CREDENTIALS"
	Details string `json:"details,omitempty"` // Detailed error information (optional)
}

// Response is the body written for every error
type Response struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`    // HTTP status code
	Message string     `json:"message"` // User-friendly error message
	Error   *ErrorInfo `json:"error,omitempty"`
}

// FromError builds the client-facing body for err. Anything that is not an
// AppError collapses into ErrInternalError.
func FromError(err error) (int, Response) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = ErrInternalError
	}

	return appErr.HTTPCode(), Response{
		Success: false,
		Code:    appErr.HTTPCode(),
		Message: appErr.Message(),
		Error: &ErrorInfo{
			Code:    appErr.ErrorCode(),
			Details: appErr.Details(),
		},
	}
}
