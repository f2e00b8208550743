// Package domain contains the core entities of the review scheduler: cards,
// their policy-specific scheduling states, review outcomes and review logs.
// It is independent of any storage or delivery mechanism.
package domain
