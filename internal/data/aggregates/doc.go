// Package aggregates holds the write-side plumbing shared by services:
// transaction runners and the mapping of driver errors onto coded errors.
package aggregates
