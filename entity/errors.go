package entity

import "errors"

// Sentinel errors shared by the storage, core and http layers
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalid      = errors.New("invalid request")
	ErrUpstream     = errors.New("upstream error")
	ErrNotConnected = errors.New("service not connected")

	ErrAlreadyProcessed = errors.New("event already processed")
	ErrStatusConflict   = errors.New("order status does not allow the change")
)
