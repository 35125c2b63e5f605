package models

// Vendor is a dashboard account from the Vendors table. PasswordHash is
// a bcrypt hash; the store never holds plaintext passwords.
type Vendor struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	VendorID string `json:"vendor_id"`
	Name     string `json:"name"`
}
