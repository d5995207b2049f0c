package api

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	Message              string `json:"message"`
	Username             string `json:"username"`
	DaysToPasswordExpiry *int   `json:"days_to_password_expiry,omitempty"`
}

// ReactivateResponse is returned after an account reactivation.
type ReactivateResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// AttemptsResponse reports the consecutive failed-attempt count of a
// username.
type AttemptsResponse struct {
	Username string `json:"username"`
	Count    int64  `json:"count"`
}

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
