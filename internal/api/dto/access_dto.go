package dto

// AccessCodeRequest carries a supporter access code. The field is named
// email for compatibility with the original client form, but semantically
// it is an access code.
type AccessCodeRequest struct {
	Email string `json:"email"`
}

// MembershipVerifyRequest carries a membership email to check against the
// supporter allow-list.
type MembershipVerifyRequest struct {
	Email string `json:"email"`
}

// TokenResponse returns a freshly minted access token.
type TokenResponse struct {
	Token string `json:"token"`
}
