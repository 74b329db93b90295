package errors

import "fmt"

var (
	ErrWorkerPanic         = fmt.Errorf("worker panic")
	ErrPeerNotFound        = fmt.Errorf("peer not found")
	ErrDirectoryFull       = fmt.Errorf("peer directory full")
	ErrFrameTooShort       = fmt.Errorf("frame too short")
	ErrFrameTooLarge       = fmt.Errorf("frame exceeds transport mtu")
	ErrPayloadTooLarge     = fmt.Errorf("payload too large")
	ErrUnknownKind         = fmt.Errorf("unknown message kind")
	ErrNumberNotConfigured = fmt.Errorf("phone number not configured")
	ErrTransportClosed     = fmt.Errorf("transport closed")
)
