package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	ErrNotFound     = errors.New("domain: not found")
	ErrConflict     = errors.New("domain: conflict")
	ErrUnauthorized = errors.New("domain: unauthorized")
	ErrForbidden    = errors.New("domain: forbidden")

	ErrInvalidCursor       = errors.New("domain: invalid pagination cursor")
	ErrCompanyUserNotFound = errors.New("domain: company user not found")
	ErrSeatsExhausted      = errors.New("domain: no seats left")
	ErrSelfAction          = errors.New("domain: action targets the acting user")
)

// MsgCompanyUserNotFound is the error text the API returns when a removal targets a
// user who is no longer a company member. Clients match on it.
const MsgCompanyUserNotFound = "Company user not found"

// MsgTryAgainLater is the generic alert for transport and server failures.
const MsgTryAgainLater = "An error has occured. Please try again later."
