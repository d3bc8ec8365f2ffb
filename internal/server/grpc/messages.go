package grpc

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type VerifyEmailRequest struct {
	Email     string `json:"email"`
	EmailCode string `json:"emailCode"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type MeRequest struct{}

// AuthResponse mirrors the HTTP response body.
type AuthResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
}

type MeResponse struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}
