package model

import "github.com/golang-jwt/jwt/v5"

// SupervisorClaims are JWT claims for supervisor authentication
type SupervisorClaims struct {
	SupervisorID string `json:"supervisorId"`
	Name         string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for supervisor login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token        string `json:"token"`
	SupervisorID string `json:"supervisorId"`
}
