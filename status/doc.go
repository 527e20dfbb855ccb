// Package status maintains the conditions of a CloudSecret and writes them
// to the API server.
//
// A condition is replaced in place by type. Its transition time only moves
// when its status or reason changes, and every condition written carries the
// generation it was computed for. Writes that wouldn't change the stored
// status are skipped, and once the resource is gone no further writes are
// attempted.
package status
