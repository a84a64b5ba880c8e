// Package aggregates defines the coded errors the progression engine returns.
// Transport layers map codes to status; callers branch on CodeOf.
package aggregates
