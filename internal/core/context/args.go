// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// CleanedArgs holds the validated filter values of a request, by parameter name.
type CleanedArgs map[string]any

type cleanedArgsKey struct{}

// WithCleanedArgs adds validated filter values to context.
func WithCleanedArgs(ctx context.Context, args CleanedArgs) context.Context {
	return context.WithValue(ctx, cleanedArgsKey{}, args)
}

// GetCleanedArgs returns validated filter values from context.
// Returns nil if the request was not filtered.
func GetCleanedArgs(ctx context.Context) CleanedArgs {
	if v, ok := ctx.Value(cleanedArgsKey{}).(CleanedArgs); ok {
		return v
	}
	return nil
}

// GetCleanedArg returns a single validated value.
func GetCleanedArg(ctx context.Context, name string) (any, bool) {
	v, ok := GetCleanedArgs(ctx)[name]
	return v, ok
}
