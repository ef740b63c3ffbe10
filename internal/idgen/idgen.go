// Package idgen centralises identifier generation for runs and queue
// messages so tests can stub it for deterministic output.
package idgen

import "github.com/google/uuid"

// NewFunc produces a new globally unique identifier.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new identifier using NewFunc.
func New() string { return NewFunc() }
