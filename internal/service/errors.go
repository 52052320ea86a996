package service

import "errors"

var (
	ErrNoRulesConfigured       = errors.New("no commission rules configured for shop")
	ErrNoApplicableRule        = errors.New("no commission rule matches the sale amount")
	ErrInvalidRule             = errors.New("invalid commission rule")
	ErrInvalidSale             = errors.New("invalid sale")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrDuplicateIdempotentKey  = errors.New("idempotent key already exists")
	ErrSessionNotFound         = errors.New("session not found")
)
