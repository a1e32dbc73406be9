package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error codes used across services and handlers. Validation subtypes carry
// their own code so clients (and tests) can distinguish why a battle or
// vote request was rejected.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodePostsAreSame    = "POSTS_ARE_SAME"
	CodePostNotEligible = "POST_NOT_ELIGIBLE"
	CodeVotingClosed    = "VOTING_CLOSED"
	CodeInvalidChoice   = "INVALID_CHOICE"
	CodeDuplicateVote   = "DUPLICATE_VOTE"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeInternal        = "INTERNAL_ERROR"
)

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewPostsAreSameError rejects a battle pairing a post against itself.
func NewPostsAreSameError() *AppError {
	return &AppError{
		Code:    CodePostsAreSame,
		Message: "A post cannot battle against itself",
	}
}

// NewPostNotEligibleError rejects a battle contender that is not published.
func NewPostNotEligibleError(postID uint) *AppError {
	return &AppError{
		Code:    CodePostNotEligible,
		Message: fmt.Sprintf("Post %d is not eligible for a battle (must be published)", postID),
	}
}

// NewVotingClosedError rejects a vote on a battle that is not active.
func NewVotingClosedError(battleID uint) *AppError {
	return &AppError{
		Code:    CodeVotingClosed,
		Message: fmt.Sprintf("Voting is closed for battle %d", battleID),
	}
}

// NewInvalidChoiceError rejects a vote for a post outside the battle.
func NewInvalidChoiceError() *AppError {
	return &AppError{
		Code:    CodeInvalidChoice,
		Message: "Chosen post is not part of this battle",
	}
}

// NewDuplicateVoteError rejects a second vote by the same voter in a battle.
func NewDuplicateVoteError() *AppError {
	return &AppError{
		Code:    CodeDuplicateVote,
		Message: "You have already voted in this battle",
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// NewForbiddenError rejects acting on a resource the caller does not own.
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
