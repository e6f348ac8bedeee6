package domain

import "errors"

// Not-found errors, one per referenced entity.
var (
	ErrGigNotFound          = errors.New("gig not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrDeliveryNotFound     = errors.New("delivery not found")
	ErrReviewNotFound       = errors.New("review not found")
	ErrConversationNotFound = errors.New("conversation not found")
)

// Authorization and state-conflict errors.
var (
	ErrForbidden         = errors.New("access forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrDuplicateReview   = errors.New("review already exists for this gig")
	ErrAlreadyAccepted   = errors.New("delivery already accepted")
	// ErrConversationExists signals a creation race on a deterministic
	// conversation id; callers resolve it by re-fetching.
	ErrConversationExists = errors.New("conversation already exists")
)

// Validation errors.
var (
	ErrSelfPurchase  = errors.New("sellers cannot purchase their own gig")
	ErrSelfReview    = errors.New("sellers cannot review their own gig")
	ErrInvalidRating = errors.New("star rating must be between 1 and 5")
	ErrNoDelivery    = errors.New("order has no delivery to mark delivered")
)

// ErrPaymentInitiation wraps any failure to obtain a payment intent from the
// processor (unreachable, rejected, or timed out). Transient; callers should
// retry with backoff. No order is persisted when it occurs.
var ErrPaymentInitiation = errors.New("payment initiation failed")

// Auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
)
