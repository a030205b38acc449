package dashboard

// Reconcile decides whether a server-reported countdown replaces the locally
// ticked one. The server value may only move the countdown down or reset it:
// a candidate is adopted when the local countdown already ran out, when the
// server says the buyback is due, or when the candidate is clearly below the
// local value (beyond the one-second jitter a poll round trip introduces).
// A late or out-of-order poll can therefore never make the countdown jump up.
func Reconcile(remaining, candidate int64) int64 {
	if remaining == 0 || candidate == 0 || candidate < remaining-1 {
		return candidate
	}
	return remaining
}

// Tick decrements the countdown by one second, flooring at zero.
func Tick(remaining int64) int64 {
	if remaining > 0 {
		return remaining - 1
	}
	return 0
}
