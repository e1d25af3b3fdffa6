package storage

import "errors"

// ErrNotificationAlreadySeen is returned when the conditional notification_seen
// write finds the flag already set, i.e. a concurrent reconciliation won the race.
var ErrNotificationAlreadySeen = errors.New("notification already marked seen")

// ErrTransactionExists is returned when a client-generated transaction id collides
// with an existing record.
var ErrTransactionExists = errors.New("transaction id already exists")

// ErrTransactionNotFound is returned when a transaction id matches no record.
var ErrTransactionNotFound = errors.New("transaction not found")

// ErrUserNotFound is returned when no user matches the given credentials or id.
var ErrUserNotFound = errors.New("user not found")

// ErrCryptoNotFound is returned when an asset id has no metadata record.
var ErrCryptoNotFound = errors.New("crypto asset not found")
