package mockserver

import (
	"math"
	"math/rand"
	"time"
)

// backoff returns a delay with exponential backoff based on the number of
// retries, the same algorithm gRPC uses: base * factor^retries, capped at
// max, then jittered by +/- jitter fraction. Nothing outside this
// package's tests calls it; the verifier does not poll or retry.
func backoff(base, maxDuration time.Duration, retries int) time.Duration {
	return backoffWithJitter(float64(base), float64(maxDuration), 0.2, 2.0, retries)
}

func backoffWithJitter(baseNS, maxNS, jitter, factor float64, retries int) time.Duration {
	if retries < 0 {
		retries = 0
	}
	backoffNS := baseNS * math.Pow(factor, float64(retries))
	if backoffNS > maxNS {
		backoffNS = maxNS
	}
	delta := backoffNS * jitter
	min := backoffNS - delta
	max := backoffNS + delta
	result := min + (rand.Float64() * (max - min + 1))
	if result < 0 {
		result = 0
	}
	return time.Duration(result)
}
