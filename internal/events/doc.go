// Package events lets services publish what happened without knowing who
// reacts to it.
//
// The card review service emits a review-recorded event after every saved
// review; the review log handler turns it into a history entry.
package events
