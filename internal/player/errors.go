package player

import (
	"errors"

	"github.com/mauv0809/padel-connect/internal/outcome"
)

// ErrNotFound is returned by the store when no profile exists for a user.
var ErrNotFound = errors.New("player not found")

var (
	ErrProfileNotFound   = outcome.Reject(outcome.NotFound, "Your profile not found. Please update your profile.")
	ErrNicknameRequired  = outcome.Reject(outcome.Validation, "Nickname is required")
	ErrNicknameTooShort  = outcome.Reject(outcome.Validation, "Nickname must be at least 3 characters")
	ErrNicknameTooLong   = outcome.Reject(outcome.Validation, "Nickname must be 20 characters or less")
	ErrNicknameTaken     = outcome.Reject(outcome.Duplicate, "This nickname is already taken")
	ErrInvalidSkill      = outcome.Reject(outcome.Validation, "Unknown skill level")
	ErrNoFile            = outcome.Reject(outcome.Validation, "No file provided")
	ErrNotAnImage        = outcome.Reject(outcome.Validation, "File must be an image")
	ErrFileTooLarge      = outcome.Reject(outcome.Validation, "File size must be less than 5MB")
	ErrStorageDisabled   = outcome.Reject(outcome.Conflict, "Photo uploads are not available")
	ErrPhotoUpdateFailed = outcome.Reject(outcome.Conflict, "Failed to update profile with photo URL")
)
