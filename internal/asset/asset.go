// Package asset provides the canonical asset model for Horizon-style
// liquidity pools. A reserve descriptor is either the literal native marker
// or a CODE:ISSUER pair; Parse normalizes both into a Ref value.
package asset

import (
	"strings"

	"github.com/savexlabs/arb-engine/internal/apperror"
)

// NativeCode is the symbol of the chain's native asset.
const NativeCode = "XLM"

// nativeMarker is the literal descriptor Horizon uses for the native asset.
const nativeMarker = "native"

// Ref identifies an asset. Two Refs are equal iff (code, issuer) match, or
// both are native. Immutable once constructed.
type Ref struct {
	Code   string
	Issuer string
	Native bool
}

// NativeRef returns the Ref for the chain's native asset.
func NativeRef() Ref {
	return Ref{Code: NativeCode, Native: true}
}

// NewRef constructs a credit-asset Ref.
func NewRef(code, issuer string) Ref {
	return Ref{Code: code, Issuer: issuer}
}

// Parse normalizes a raw reserve descriptor into a Ref.
// It fails with CodeMalformedAsset when a non-native descriptor lacks an
// issuer segment; the caller decides whether to skip or abort.
func Parse(raw string) (Ref, error) {
	if raw == nativeMarker {
		return NativeRef(), nil
	}

	code, issuer, found := strings.Cut(raw, ":")
	if !found || code == "" || issuer == "" {
		return Ref{}, apperror.Validation(apperror.CodeMalformedAsset, raw)
	}

	return Ref{Code: code, Issuer: issuer}, nil
}

// Key returns the canonical string form: "native" for the native asset,
// "CODE:ISSUER" otherwise. Parse(r.Key()) yields a Ref equal to r.
func (r Ref) Key() string {
	if r.Native {
		return nativeMarker
	}
	return r.Code + ":" + r.Issuer
}

// Equal compares two Refs.
func (r Ref) Equal(other Ref) bool {
	if r.Native || other.Native {
		return r.Native == other.Native
	}
	return r.Code == other.Code && r.Issuer == other.Issuer
}

// IsZero reports whether the Ref is the zero value (not a valid asset).
func (r Ref) IsZero() bool {
	return !r.Native && r.Code == ""
}

// String returns the display symbol.
func (r Ref) String() string {
	return r.Code
}
