package squareapi

import "github.com/pkg/errors"

var (
	ErrSubscriptionNotFound = errors.New("subscription not found in square")
)
