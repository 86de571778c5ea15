// Package kinematics provides the stateless physics helpers used by vehicle
// integration: acceleration clamping, Gaussian-noised speed draws, and
// physically correct braking decelerations. All distances are in metres,
// velocities in m/s, time in seconds.
package kinematics

import (
	"math/rand"
)

// ClampAcceleration returns the acceleration to apply over dt so that the
// resulting speed never exceeds maxSpeed, given the vehicle wants to
// accelerate at maxAcceleration from v.
func ClampAcceleration(v, maxAcceleration, maxSpeed, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	if v+maxAcceleration*dt <= maxSpeed {
		return maxAcceleration
	}
	a := (maxSpeed - v) / dt
	if a < 0 {
		return 0
	}
	return a
}

// IntegratePosition advances position under constant acceleration a over dt.
func IntegratePosition(p, v, a, dt float64) float64 {
	return p + v*dt + 0.5*a*dt*dt
}

// GaussianSpeed draws a noised speed centred on mean with standard deviation
// sigma, clamped to [0, speedLimit]. sigma == 0 returns mean unchanged
// (clamped).
func GaussianSpeed(mean, sigma, speedLimit float64, rng *rand.Rand) float64 {
	v := mean
	if sigma > 0 {
		v = rng.NormFloat64()*sigma + mean
	}
	if v < 0 {
		v = 0
	}
	if v > speedLimit {
		v = speedLimit
	}
	return v
}

// BrakingDeceleration returns the (negative) acceleration needed to bring a
// vehicle travelling at v to a stop exactly at a point distanceToTarget
// metres ahead. Returns 0 if already there or past it (handled by caller).
func BrakingDeceleration(v, distanceToTarget float64) float64 {
	if distanceToTarget <= 0 {
		return 0
	}
	return -(v * v) / (2 * distanceToTarget)
}

// DecelerateStep advances (position, velocity) one step under deceleration
// a (expected ≤ 0), never letting velocity go negative.
func DecelerateStep(p, v, a, dt float64) (newP, newV float64) {
	newV = v + a*dt
	if newV < 0 {
		// time to actually reach zero, then stay there for the remainder
		if a == 0 {
			return p, 0
		}
		tStop := -v / a
		if tStop < 0 {
			tStop = 0
		}
		if tStop > dt {
			tStop = dt
		}
		newP = p + v*tStop + 0.5*a*tStop*tStop
		return newP, 0
	}
	newP = IntegratePosition(p, v, a, dt)
	return newP, newV
}
