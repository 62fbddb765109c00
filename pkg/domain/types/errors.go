package types

import "github.com/m-mizutani/goerr/v2"

// Error tags attached to failures of the dispatch path
var (
	ErrTagConfiguration = goerr.NewTag("configuration")
	ErrTagUpstream      = goerr.NewTag("upstream")
	ErrTagTransport     = goerr.NewTag("transport")
)

// ErrorKind classifies a dispatch failure
type ErrorKind string

const (
	ErrorKindConfiguration ErrorKind = "configuration"
	ErrorKindUpstream      ErrorKind = "upstream"
	ErrorKindTransport     ErrorKind = "transport"
	ErrorKindUnknown       ErrorKind = "unknown"
)

// KindOf returns the kind of err based on its goerr tag
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case goerr.HasTag(err, ErrTagConfiguration):
		return ErrorKindConfiguration
	case goerr.HasTag(err, ErrTagUpstream):
		return ErrorKindUpstream
	case goerr.HasTag(err, ErrTagTransport):
		return ErrorKindTransport
	default:
		return ErrorKindUnknown
	}
}
