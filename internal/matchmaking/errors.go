package matchmaking

import (
	"errors"

	"github.com/mauv0809/padel-connect/internal/outcome"
)

// ErrNotFound is returned by the store when a row does not exist.
var ErrNotFound = errors.New("not found")

var (
	ErrSelfRequest           = outcome.Reject(outcome.Validation, "Cannot send request to yourself")
	ErrSenderProfileMissing  = outcome.Reject(outcome.NotFound, "Your profile not found. Please update your profile.")
	ErrSenderOffline         = outcome.Reject(outcome.Validation, "You must be online to send match requests")
	ErrReceiverNotFound      = outcome.Reject(outcome.NotFound, "Player not found")
	ErrReceiverOffline       = outcome.Reject(outcome.Validation, "Player is not online")
	ErrActiveOutgoingRequest = outcome.Reject(outcome.Validation, "You already have an active match request. Please wait for a response or cancel it first.")
	ErrPendingToReceiver     = outcome.Reject(outcome.Validation, "You already have a pending request to this player")
	ErrReciprocalRequest     = outcome.Reject(outcome.Validation, "This player already sent you a request. Check your incoming requests.")
	ErrDuplicateRequest      = outcome.Reject(outcome.Duplicate, "A pending request already exists between you and this player")

	ErrRequestNotFound  = outcome.Reject(outcome.NotFound, "Request not found or already processed")
	ErrNotReceiver      = outcome.Reject(outcome.Forbidden, "Only the receiver can respond to this request")
	ErrNotSender        = outcome.Reject(outcome.Forbidden, "Only the sender can cancel this request")
	ErrRequestNotActive = outcome.Reject(outcome.Conflict, "Request not found or already processed")
	ErrRequestExpired   = outcome.Reject(outcome.Expired, "This request has expired")
	ErrReceiverGone     = outcome.Reject(outcome.Validation, "You must be online to accept requests")
	ErrSenderGone       = outcome.Reject(outcome.Validation, "The other player is no longer online")

	ErrMatchNotFound      = outcome.Reject(outcome.NotFound, "Match not found")
	ErrNotParticipant     = outcome.Reject(outcome.Forbidden, "You are not a player in this match")
	ErrInvalidMatchStatus = outcome.Reject(outcome.Validation, "Unknown match status")
	ErrIllegalTransition  = outcome.Reject(outcome.Conflict, "Match cannot move to that status")
)
