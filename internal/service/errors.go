package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers both unknown identity and wrong password;
	// the message is deliberately generic to avoid user enumeration.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	ErrAccountDisabled = errors.New("user account is disabled")
	ErrUsernameTaken   = errors.New("username already registered")
	ErrEmailTaken      = errors.New("email already registered")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidRole     = errors.New("invalid role")

	// ErrAdminProtected guards admin accounts against blacklist, role-change
	// and delete operations regardless of caller privilege.
	ErrAdminProtected = errors.New("operation not permitted on admin accounts")
)

// AccountBlockedError carries the stored blacklist reason. Unlike wrong
// credentials, the reason is revealed to the caller on purpose.
type AccountBlockedError struct {
	Reason string
}

func (e *AccountBlockedError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "Contact admin"
	}
	return fmt.Sprintf("Account Blocked: %s", reason)
}
