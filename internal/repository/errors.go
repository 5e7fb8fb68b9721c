// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between different failure
// scenarios. For example, ErrForbidden indicates that the current
// user is not authorized to operate on a session, block or shot
// owned by someone else, while ErrSessionFinished signals that a
// mutation targeted a session that has already been closed out.
// Absence of a row is reported as sql.ErrNoRows throughout.
package repository

import "errors"

// ErrForbidden is returned when the ownership chain
// shot -> block -> session -> user does not resolve to the caller.
// Handlers translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned when a register or profile update
// would claim an email already held by another account. The
// comparison is case-insensitive.
var ErrEmailExists = errors.New("email already exists")

// ErrInvalidEmail is returned when an email fails format
// validation. Handlers translate this into an HTTP 400 response.
var ErrInvalidEmail = errors.New("invalid email format")

// ErrNameRequired is returned when a register or profile update
// carries an empty display name.
var ErrNameRequired = errors.New("full name required")

// ErrBadCredentials is returned when a password check fails. It is
// deliberately the same error whether the account exists with a
// different password or does not exist at all, so responses cannot
// be used to probe which emails are registered.
var ErrBadCredentials = errors.New("invalid credentials")

// ErrSessionFinished is returned when a caller tries to finish a
// session twice or to record a shot into a finished session.
// Handlers translate this into an HTTP 409 response.
var ErrSessionFinished = errors.New("session already finished")

// ErrInvalidBlock is returned when a session is created with no
// blocks, an unknown target area, or a non-positive planned count.
var ErrInvalidBlock = errors.New("invalid block definition")
