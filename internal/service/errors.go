package service

import "errors"

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrRequestNotFound = errors.New("request not found")
	ErrDealNotFound    = errors.New("deal record not found")
	ErrBidNotFound     = errors.New("bid not found")
	ErrUserNotFound    = errors.New("user not found")

	ErrNotEntityOwner   = errors.New("caller doesn't own this entity")
	ErrNoAccessToBid    = errors.New("caller doesn't have sufficient rights to settle this bid")
	ErrOwnBidNotAllowed = errors.New("attempt to bid on caller's own listing or request")

	ErrDealAlreadyExists   = errors.New("entity is already wrapped by a deal record")
	ErrDealAlreadyResolved = errors.New("deal record verdict is already terminal")
	ErrBidAlreadySettled   = errors.New("bid is already settled")

	ErrInvalidKind     = errors.New("unknown deal kind")
	ErrInvalidVerdict  = errors.New("verdict must be Accepted or Rejected")
	ErrInvalidDecision = errors.New("decision must be Accept or Reject")

	ErrInvalidQuantity       = errors.New("quantity must be positive")
	ErrTargetUnavailable     = errors.New("listing has no quantity left to bid on")
	ErrInsufficientInventory = errors.New("listing quantity doesn't cover the bid")
	ErrReasonRequired        = errors.New("a reason is required to reject")
	ErrInvalidDateRange      = errors.New("availability window is inverted")

	// ErrBusy means per-entity lock contention outlived the bounded retries.
	// Safe for the caller to retry.
	ErrBusy = errors.New("entity is busy with a concurrent operation, try again")

	ErrUserAlreadySuspended = errors.New("user is already suspended")
	ErrUserAlreadyVerified  = errors.New("user is already verified")
)
