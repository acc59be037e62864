package models

import "github.com/golang-jwt/jwt/v5"

// User is an account identity. Password is only populated on inbound
// register/login requests and is never persisted or serialized back.
type User struct {
	UserID    int64  `json:"userId,omitempty"`
	Login     string `json:"login"`
	Password  string `json:"password,omitempty"`
	AuthHash  string `json:"-"`
	CreatedAt int64  `json:"createdAt,omitempty"`
}

// Token pairs a parsed JWT with its signed string form and the user ID
// extracted from the subject claim.
type Token struct {
	Token        *jwt.Token
	SignedString string
	UserID       int64
}
