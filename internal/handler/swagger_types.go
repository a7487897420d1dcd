package handler

import (
	"time"

	"patentdesk/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"applicant@example.com"`
	Password string `json:"password" binding:"required" example:"securepassword123"`
}

// RegisterRequest represents the applicant registration request body.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required" example:"applicant@example.com"`
	Password string `json:"password" binding:"required" example:"securepassword123"`
	FullName string `json:"full_name" binding:"required" example:"Ayse Yilmaz"`
	Phone    string `json:"phone" example:"+905551234567"`
}

// RefreshRequest represents the token refresh request body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// UpdateUserRequest represents the update profile request body.
type UpdateUserRequest struct {
	Email    *string `json:"email" example:"new@example.com"`
	FullName *string `json:"full_name" example:"Ayse Yilmaz"`
	Phone    *string `json:"phone" example:"+905551234567"`
	Password *string `json:"password" example:"newsecurepassword"`
}

// WizardFieldsRequest carries the fields changed on a wizard page.
type WizardFieldsRequest struct {
	Fields domain.FormData `json:"fields" swaggertype:"object"`
}

// PaymentSuccessRequest represents the payment callback body.
type PaymentSuccessRequest struct {
	TransactionID string `json:"transaction_id" binding:"required" example:"txn_01HZX3"`
	Amount        int64  `json:"amount" binding:"required" example:"150000"`
}

// DecisionRequest represents an approve, reject or feedback body.
type DecisionRequest struct {
	CategoryID string `json:"category_id" example:"missing_drawings"`
	Message    string `json:"message" example:"Drawings 2 and 3 are illegible."`
}

// --- Response Types ---

// TokenResponse represents the authentication token response.
type TokenResponse struct {
	AccessToken  string    `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string    `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt    time.Time `json:"expires_at" example:"2026-01-15T10:30:00Z"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"operation completed successfully"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
