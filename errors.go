package solrq

import "github.com/kailas-cloud/solrq/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrTransport  = domain.ErrTransport
	ErrParse      = domain.ErrParse
	ErrServer     = domain.ErrServer
	ErrNoReplicas = domain.ErrNoReplicas
)

// TransportError is returned when a request could not be completed or the
// server answered with a non-success status. Use errors.As() to inspect it.
type TransportError = domain.TransportError

// ParseError is returned when a response body could not be decoded.
type ParseError = domain.ParseError
