// Package repository provides ownership-scoped data access for users and
// tasks.  Sentinel errors defined here let handlers distinguish failure
// scenarios without inspecting driver-specific errors: a missing or
// non-owned row surfaces as ErrNotFound (never "forbidden", so the
// existence of another user's rows does not leak), and a duplicate email
// surfaces as ErrEmailExists.
package repository

import "errors"

// ErrNotFound is returned when a scoped lookup matches no row.  Cross-user
// access deliberately yields the same error as a genuinely missing row.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when registration hits the unique email
// constraint.  Handlers translate this into an HTTP 400 response.
var ErrEmailExists = errors.New("email already exists")
