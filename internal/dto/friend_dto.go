package dto

import "strings"

// RedeemFriendCodeRequest carries a code published by another user
type RedeemFriendCodeRequest struct {
	Code string `json:"code" binding:"required" example:"X1Y2Z3A4"`
}

// Normalize trims and upper-cases the code; issued codes use [0-9A-Z] only
func (r *RedeemFriendCodeRequest) Normalize() {
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
}
