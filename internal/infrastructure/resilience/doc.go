/*
Package resilience provides the circuit breaker that guards the server's
accept loop.

# Overview

A listener whose Accept fails repeatedly (file descriptor exhaustion, a
closed socket being re-used) would otherwise make the sequential server spin
at full speed logging the same error. Wrapping Accept in a Breaker turns a
burst of consecutive failures into a pause of Settings.Timeout, after which
a single trial Accept decides whether to resume.

# States

- Closed: Normal operation, calls pass through
- Open: Calls fail immediately with ErrCircuitOpen
- Half-Open: Limited trial calls decide between Closed and Open

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           |
	                                           v
	                                         Open
*/
package resilience
