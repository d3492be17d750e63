// Package sanitizer provides input normalization for catalog and customer data.
//
// All normalization functions are idempotent - applying them multiple times produces
// the same result. Functions handle invalid input gracefully, typically by returning
// empty strings or empty slices rather than errors.
//
// The package is shared across services so stored data stays consistent
// regardless of which surface accepted it.
//
// Normalization includes:
//   - Phone numbers: Convert to E.164 format (+[country][number])
//   - Names: Collapse whitespace, trim leading/trailing spaces
//   - Labels: Lowercase, non-alphanumerics collapsed to underscores - "Castle #2 (blue)" becomes "castle_2_blue"
//   - Slices: Remove duplicates and empty values after normalization
package sanitizer
