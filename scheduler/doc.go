// Package scheduler keeps one sync timer per CloudSecret. A fired timer emits
// a generic event that the CloudSecret controller consumes through a channel
// source. Ticks that fire while the resource is being reconciled are
// coalesced into that reconciliation.
package scheduler
