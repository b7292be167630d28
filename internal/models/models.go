package models

import "mime/multipart"

// Default blend weights applied when the form omits them.
const (
	DefaultAlphaLow  = 0.7
	DefaultAlphaHigh = 0.3
)

// MergeForm is the multipart form accepted by POST /merge.
type MergeForm struct {
	ImageA    *multipart.FileHeader `form:"imageA"`
	ImageB    *multipart.FileHeader `form:"imageB"`
	AlphaLow  float64               `form:"alpha_low,default=0.7"`
	AlphaHigh float64               `form:"alpha_high,default=0.3"`
}

// AuthRequest is the JSON body accepted by POST /auth. Password is left
// untyped so that a non-string value counts as a wrong secret rather than
// a malformed body.
type AuthRequest struct {
	Password any `json:"password"`
}

// AuthResponse is returned by POST /auth on success.
type AuthResponse struct {
	OK        bool   `json:"ok"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}
