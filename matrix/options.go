// SPDX-License-Identifier: MIT

package matrix

// Numeric policy defaults (single source of truth).
const (
	// DefaultEpsilon is the non-negative tolerance used by approximate comparisons.
	DefaultEpsilon = 1e-9

	// DefaultValidateNaNInf toggles strict finite-value validation in Set.
	DefaultValidateNaNInf = true
)
