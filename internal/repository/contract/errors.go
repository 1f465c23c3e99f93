package contract

import "errors"

var ErrUserNotFound = errors.New("security user not found")
