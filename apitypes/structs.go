// Package apitypes defines the wire structures of the wiimoted management
// API, shared between server and client.
package apitypes

import "fmt"

// ApiError represents an RFC 7807 (problem+json) error response.
type ApiError struct {
	// Status is the HTTP-style status code (e.g., 400, 404, 503)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail"`
}

func (e ApiError) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

// --

type PingResponse struct {
	Server  string `json:"server"`
	Version string `json:"version"`
}

// StatusResponse mirrors the driver snapshot. Battery is null until the
// first status report has been received.
type StatusResponse struct {
	Connected bool `json:"connected"`
	Battery   *int `json:"battery"`
}

// BatteryRequestResponse acknowledges that the status command was sent.
// The reading itself arrives asynchronously through the event stream.
type BatteryRequestResponse struct {
	Requested bool `json:"requested"`
}

// ReadResponse carries one drain of the event buffer. Data may span
// multiple newline-terminated lines; empty Data means no events were
// pending.
type ReadResponse struct {
	Data string `json:"data"`
	N    int    `json:"n"`
}
