package services

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrRewardNotClaimable = errors.New("reward not claimable")
	ErrInsufficientCoins  = errors.New("insufficient coins")
	ErrItemUnavailable    = errors.New("item unavailable")
	ErrAlreadyRated       = errors.New("server already rated by this user")
	ErrInvalidInput       = errors.New("invalid input")
)
