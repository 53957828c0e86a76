package model

import "github.com/golang-jwt/jwt/v5"

// HostClaims are JWT claims for admin authentication
type HostClaims struct {
	HostID string `json:"hostId"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for admin login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token     string `json:"token"`
	HostID    string `json:"hostId"`
	ExpiresAt int64  `json:"expiresAt"`
}
