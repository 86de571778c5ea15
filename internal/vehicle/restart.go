package vehicle

import "math"

// Restart implements the queue-dependent restart-delay model. The caller
// supplies the preceding vehicle's cumulative delay (and whether a
// preceding vehicle exists at all — a chain head has none); the damping
// exponent multiplies the PRECEDING vehicle's cumulativeDelay, confirmed
// against the reference implementation.
func (v *Vehicle) Restart(speedLimit, dt, precCumulativeDelay float64, hasPreceding bool) float64 {
	if v.pastStatus != Accelerating {
		if v.IsDeparted {
			if v.pastStatus == WaitingSemaphore {
				v.CumulativeDelay = v.ReactionTimeAtSemaphore
			} else {
				if !hasPreceding {
					precCumulativeDelay = 0
				}
				damping := math.Exp(-v.DampingFactor * precCumulativeDelay)
				v.CumulativeDelay = precCumulativeDelay + v.ReactionTime*damping
			}
			v.CurrentDelay = v.CumulativeDelay
		} else {
			v.CumulativeDelay = 0
			v.CurrentDelay = 0
		}
	}

	step := dt - v.CurrentDelay
	if step < 0 {
		step = 0
	}
	if step > 0 {
		v.CumulativeDelay = 0
	}
	v.CurrentDelay -= dt
	if v.CurrentDelay < 0 {
		v.CurrentDelay = 0
	}

	v.Status = Accelerating
	acc := v.MaxAcceleration
	speed := v.CalculateSpeed(acc, step)
	if speed >= v.MaxSpeed {
		v.Status = Moving
	}
	if speed > speedLimit {
		speed = speedLimit
	}
	v.SetSpeed(speed)
	v.SetAcceleration(acc)
	v.Position = v.CalculatePosition(v.MaxAcceleration, step)
	return v.Position
}
