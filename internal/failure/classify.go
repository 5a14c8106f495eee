// Package failure maps pipeline failures onto the small set of kinds the
// client reacts to. Classification is pure: it never touches the session,
// navigation or notifications.
package failure

import (
	"context"
	"errors"
	"net"
	"strings"
)

// Kind is the category of a failed request.
type Kind int

const (
	// None means there was no failure.
	None Kind = iota
	// Network means the request never completed or the reply was unreadable.
	Network
	// Unauthorized means the server rejected the session.
	Unauthorized
	// Forbidden means the session lacks permission for the operation.
	Forbidden
	// Validation is local input rejection. Classify never returns it; it exists
	// so callers can report local failures with the same vocabulary.
	Validation
	// Unknown is any other server-reported failure.
	Unknown
	// Canceled means the caller abandoned the request. Nobody is waiting for
	// the outcome, so it is never reported.
	Canceled
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Network:
		return "network"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case Validation:
		return "validation"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Classified is the result of classifying one failure.
type Classified struct {
	Kind    Kind
	Message string
	Err     error
}

// Failed reports whether the outcome is a failure.
func (c Classified) Failed() bool {
	return c.Kind != None
}

// transportCarrier is implemented by errors that know whether the request
// reached the server.
type transportCarrier interface {
	TransportCause() error
}

// serverCarrier is implemented by errors carrying server-reported messages.
type serverCarrier interface {
	ServerMessages() []string
}

// NetworkPhrases identify a failure that never reached the server.
var NetworkPhrases = []string{
	"failed to fetch",
	"fetch failed",
	"network",
	"econnrefused",
	"connection refused",
	"connection reset",
	"server unreachable",
	"no such host",
	"no route to host",
	"dial tcp",
	"i/o timeout",
	"unexpected eof",
}

// kindPattern pairs message substrings with a kind.
type kindPattern struct {
	phrases []string
	kind    Kind
}

// serverTable is checked in order for every server message; the first
// message that matches any entry decides the kind.
var serverTable = []kindPattern{
	{[]string{"unauthorized"}, Unauthorized},
	{[]string{"forbidden"}, Forbidden},
}

// Classify returns the kind of err. A nil err is None. It never panics;
// anything it cannot make sense of is Unknown.
func Classify(err error) (c Classified) {
	if err == nil {
		return Classified{Kind: None}
	}
	defer func() {
		if r := recover(); r != nil {
			c = Classified{Kind: Unknown, Err: err}
		}
	}()

	if errors.Is(err, context.Canceled) {
		return Classified{Kind: Canceled, Message: err.Error(), Err: err}
	}

	var tc transportCarrier
	if errors.As(err, &tc) {
		if cause := tc.TransportCause(); cause != nil {
			return Classified{Kind: Network, Message: cause.Error(), Err: err}
		}
	}

	var sc serverCarrier
	if errors.As(err, &sc) {
		msgs := sc.ServerMessages()
		for _, msg := range msgs {
			for _, entry := range serverTable {
				if ContainsAny(msg, entry.phrases...) {
					return Classified{Kind: entry.kind, Message: msg, Err: err}
				}
			}
		}
		return Classified{Kind: Unknown, Message: strings.Join(msgs, "; "), Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Classified{Kind: Network, Message: err.Error(), Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) || ContainsAny(err.Error(), NetworkPhrases...) {
		return Classified{Kind: Network, Message: err.Error(), Err: err}
	}
	return Classified{Kind: Unknown, Message: err.Error(), Err: err}
}

// IsNetworkMessage reports whether a free-form message reads as a network
// failure.
func IsNetworkMessage(msg string) bool {
	return ContainsAny(msg, NetworkPhrases...)
}

// ContainsAny checks if s contains any of the substrings (case-insensitive).
func ContainsAny(s string, substrs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrs {
		if sub != "" && strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
