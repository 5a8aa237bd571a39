package delphi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnauthorized  = errors.New("delphi: unauthorized")
	ErrDuplicateRead = errors.New("delphi: duplicate read")
	ErrUnknown       = errors.New("delphi: unknown error")
)

// ValidationError carries the per-field messages the backend returns
// alongside a non-2xx status, so handlers can show them to the user
// before falling back to a generic failure reply.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("delphi: validation failed: %s", e.UserMessage())
}

func (e *ValidationError) UserMessage() string {
	var b strings.Builder
	b.WriteString(e.Message + ": ")
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("[%s]: %s. ", k, e.Fields[k]))
	}
	return strings.TrimSpace(b.String())
}
