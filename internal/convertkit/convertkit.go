// Package convertkit provides a type-directed conversion registry.
// Conversion rules declare applicability per (source, target) type pair at
// call time, so rules over open type sets (e.g. repository-backed entity
// resolution) can consult their own state before claiming a conversion
package convertkit

import (
	"context"
	"reflect"
	"sync"

	perr "querybind/internal/platform/errors"
)

// Rule converts values between type pairs it declares itself able to handle.
// Matches must be cheap; it is consulted on every CanConvert and Convert
type Rule interface {
	Matches(src, dst reflect.Type) bool
	Convert(ctx context.Context, v any, src, dst reflect.Type) (any, error)
}

// Service is the conversion surface consumed by callers
type Service interface {
	CanConvert(src, dst reflect.Type) bool
	Convert(ctx context.Context, v any, dst reflect.Type) (any, error)
	Register(r Rule)
}

// Registry is the default Service: an ordered rule table, first match wins.
// Values assignable to the target type pass through without a rule
type Registry struct {
	mu    sync.RWMutex
	rules []Rule
}

// New returns a Registry preloaded with the built-in rules (see rules.go)
func New() *Registry {
	r := NewBare()
	for _, b := range builtinRules() {
		r.Register(b)
	}
	return r
}

// NewBare returns an empty Registry with no rules at all
func NewBare() *Registry { return &Registry{} }

// Register appends a rule to the table. Later rules only see pairs no
// earlier rule matched
func (r *Registry) Register(rule Rule) {
	if rule == nil {
		panic("convertkit: nil rule")
	}
	r.mu.Lock()
	r.rules = append(r.rules, rule)
	r.mu.Unlock()
}

// CanConvert reports whether a value of type src can be converted to dst
func (r *Registry) CanConvert(src, dst reflect.Type) bool {
	if src == nil || dst == nil {
		return false
	}
	if src.AssignableTo(dst) {
		return true
	}
	return r.ruleFor(src, dst) != nil
}

// Convert converts v to the dst type. The source type is taken from the
// dynamic type of v. Rule failures propagate unchanged; a missing rule is
// an ErrorCodeConversion failure
func (r *Registry) Convert(ctx context.Context, v any, dst reflect.Type) (any, error) {
	if dst == nil {
		return nil, perr.Conversionf("nil target type")
	}
	if v == nil {
		return nil, perr.Conversionf("cannot convert nil to %s", dst)
	}
	src := reflect.TypeOf(v)
	if src.AssignableTo(dst) {
		return v, nil
	}
	rule := r.ruleFor(src, dst)
	if rule == nil {
		return nil, perr.Conversionf("no conversion from %s to %s", src, dst)
	}
	return rule.Convert(ctx, v, src, dst)
}

// ruleFor returns the first matching rule or nil
func (r *Registry) ruleFor(src, dst reflect.Type) Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rule := range r.rules {
		if rule.Matches(src, dst) {
			return rule
		}
	}
	return nil
}
