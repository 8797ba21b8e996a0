package dto

// TokenRequest is the JSON body for POST /token.
type TokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenPairResponse mirrors the simplejwt-style token obtain contract.
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RefreshRequest is the JSON body for POST /token/refresh.
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// AccessResponse carries the refreshed access token.
type AccessResponse struct {
	Access string `json:"access"`
}
