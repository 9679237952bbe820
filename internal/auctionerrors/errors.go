package auctionerrors

import "errors"

// Business-rule errors. These are surfaced as structured rejections and
// never abort an in-flight request.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrAuctionClosed   = errors.New("auction has ended")
	ErrInvalidAmount   = errors.New("invalid bid amount")
	ErrBidTooLow       = errors.New("bid amount too low")
	ErrInvalidBid      = errors.New("invalid bid")
)

// ErrInfrastructure marks failures unrelated to business rules (broadcast,
// external providers). An accepted bid is never rolled back because of one.
var ErrInfrastructure = errors.New("infrastructure error")
