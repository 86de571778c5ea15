// Package vehicle implements the Vehicle kinematic state machine: one-step
// integration, braking, the queue-dependent restart-with-delay model, and
// metrics accumulation.
package vehicle

import (
	"math/rand"

	"github.com/cxd309/trafficsim/internal/kinematics"
)

// Status is the vehicle's current motion/interaction state.
type Status int

const (
	Created Status = iota
	Moving
	Stopped
	WaitingSemaphore
	WaitingVehicle
	GivingWay
	Accelerating
	Braking
	Following
	Arrived
)

func (s Status) String() string {
	switch s {
	case Moving:
		return "Moving"
	case Stopped:
		return "Stopped"
	case WaitingSemaphore:
		return "WaitingSemaphore"
	case WaitingVehicle:
		return "WaitingVehicle"
	case GivingWay:
		return "GivingWay"
	case Accelerating:
		return "Accelerating"
	case Braking:
		return "Braking"
	case Following:
		return "Following"
	case Arrived:
		return "Arrived"
	default:
		return "Created"
	}
}

// DefaultTimeStep matches the reference model's default tick duration.
const DefaultTimeStep = 1.0

// State is a point-in-time snapshot appended to a Vehicle's history.
type State struct {
	Time         float64
	Position     float64
	CoordX       float64
	CoordY       float64
	Speed        float64
	Acceleration float64
	Status       Status
	RoadID       int
}

// Vehicle is uniquely owned by exactly one Road at any time, or is
// unborn/arrived.
type Vehicle struct {
	ID     int
	Length float64

	MaxSpeed        float64
	MaxAcceleration float64

	ReactionTime            float64
	ReactionTimeAtSemaphore float64
	DampingFactor           float64
	Sigma                   float64

	Position     float64
	Speed        float64
	Acceleration float64
	LaneIndex    int

	Status     Status
	pastStatus Status

	CreationTime float64
	LastUpdate   float64
	ArrivalTime  float64 // -1 until arrival
	DepartDelay  float64
	IsDeparted   bool

	CumulativeDelay float64
	CurrentDelay    float64

	NumberOfStops float64
	TimeWaited    float64

	History []State
}

// New constructs a Vehicle in the Created status, matching the reference
// constructor's defaulting rules (initial speed clamped to [0, maxSpeed]).
func New(id int, length, initialPosition, initialSpeed, initialAcceleration, maxSpeed, maxAcceleration, creationTime, sigma, reactionTime, reactionTimeAtSemaphore, dampingFactor float64) *Vehicle {
	if initialSpeed < 0 {
		initialSpeed = 0
	}
	if initialSpeed > maxSpeed {
		initialSpeed = maxSpeed
	}
	v := &Vehicle{
		ID:                      id,
		Length:                  length,
		MaxSpeed:                maxSpeed,
		MaxAcceleration:         maxAcceleration,
		ReactionTime:            reactionTime,
		ReactionTimeAtSemaphore: reactionTimeAtSemaphore,
		DampingFactor:           dampingFactor,
		Sigma:                   sigma,
		Position:                initialPosition,
		Speed:                   initialSpeed,
		Acceleration:            initialAcceleration,
		Status:                  Created,
		pastStatus:              Created,
		CreationTime:            creationTime,
		LastUpdate:              creationTime,
		ArrivalTime:             -1,
	}
	return v
}

// WasJustCreated reports whether the vehicle's previous status was Created.
func (v *Vehicle) WasJustCreated() bool { return v.pastStatus == Created }

func movingStatus(s Status) bool { return s == Moving || s == Following }

func waitingStatus(s Status, speed float64) bool {
	return s == WaitingSemaphore || s == WaitingVehicle || s == GivingWay || s == Stopped ||
		(s == Accelerating && speed == 0)
}

// IsStopped mirrors the reference semantics: stopped iff speed is zero (or
// braking) and not accelerating or freshly created.
func (v *Vehicle) IsStopped() bool {
	return (v.Speed == 0 || v.Status == Braking) && v.Status != Accelerating && v.Status != Created
}

// IsMoving reports whether the vehicle has nonzero speed or is accelerating.
func (v *Vehicle) IsMoving() bool { return v.Speed > 0 || v.Status == Accelerating }

func (v *Vehicle) IsFollowing() bool         { return v.Status == Following }
func (v *Vehicle) IsWaitingSemaphore() bool  { return v.Status == WaitingSemaphore }
func (v *Vehicle) IsWaitingVehicle() bool    { return v.Status == WaitingVehicle }
func (v *Vehicle) IsGivingWay() bool         { return v.Status == GivingWay }
func (v *Vehicle) IsArrived() bool           { return v.ArrivalTime >= 0 }

// BackPosition returns the position of the vehicle's rear bumper.
func (v *Vehicle) BackPosition() float64 { return v.Position - v.Length }

// SetSpeed clamps to MaxSpeed and derives Status the way the reference
// setter does, except while Accelerating (left untouched — Restart owns
// that transition).
func (v *Vehicle) SetSpeed(speed float64) {
	if speed > v.MaxSpeed {
		speed = v.MaxSpeed
	}
	v.Speed = speed
	if v.Status == Accelerating {
		return
	}
	if speed <= 0 {
		v.Speed = 0
		v.Status = Stopped
		return
	}
	v.Status = Moving
	if !v.IsDeparted {
		v.DepartDelay = v.LastUpdate - v.CreationTime + DefaultTimeStep
	}
	v.IsDeparted = true
}

// SetAcceleration clamps to MaxAcceleration.
func (v *Vehicle) SetAcceleration(a float64) {
	if a <= v.MaxAcceleration {
		v.Acceleration = a
	} else {
		v.Acceleration = v.MaxAcceleration
	}
}

// CalculateAcceleration returns the acceleration applicable over dt without
// overshooting MaxSpeed.
func (v *Vehicle) CalculateAcceleration(dt float64) float64 {
	return kinematics.ClampAcceleration(v.Speed, v.MaxAcceleration, v.MaxSpeed, dt)
}

// CalculateSpeed returns the speed reached after applying acceleration a
// over dt, clamped to MaxSpeed.
func (v *Vehicle) CalculateSpeed(a, dt float64) float64 {
	s := v.Speed + a*dt
	if s > v.MaxSpeed {
		return v.MaxSpeed
	}
	return s
}

// CalculatePosition projects the position reached after applying
// acceleration a over dt, clamped so a mid-step MaxSpeed crossing does not
// overshoot.
func (v *Vehicle) CalculatePosition(a, dt float64) float64 {
	if v.Speed+a*dt > v.MaxSpeed {
		return v.Position + v.Speed*dt + 0.5*(v.MaxSpeed-v.Speed)*dt
	}
	return kinematics.IntegratePosition(v.Position, v.Speed, a, dt)
}

// Move advances one step assuming free flow, delegating to Restart while
// Accelerating. rng supplies the Gaussian speed draw.
func (v *Vehicle) Move(speedLimit, dt float64, rng *rand.Rand, precCumulativeDelay float64, hasPreceding bool) float64 {
	if v.Status == Accelerating {
		return v.Restart(speedLimit, dt, precCumulativeDelay, hasPreceding)
	}
	acc := v.CalculateAcceleration(dt)
	mean := v.CalculateSpeed(acc, dt)
	speed := kinematics.GaussianSpeed(mean, v.Sigma, speedLimit, rng)
	pos := v.CalculatePosition(acc, dt)
	v.Position = pos
	v.SetSpeed(speed)
	v.SetAcceleration(acc)
	return v.Position
}

// BrakeToStopAt applies physically correct deceleration so the vehicle
// comes to rest exactly at target.
func (v *Vehicle) BrakeToStopAt(target, dt float64) float64 {
	if v.Position >= target {
		v.Stop()
		return v.Position
	}
	acc := kinematics.BrakingDeceleration(v.Speed, target-v.Position)
	pos, speed := kinematics.DecelerateStep(v.Position, v.Speed, acc, dt)
	v.Position = pos
	v.SetSpeed(speed)
	v.SetAcceleration(acc)
	v.Status = Braking
	return v.Position
}

// Stop zeroes speed and acceleration.
func (v *Vehicle) Stop() {
	v.SetSpeed(0)
	v.SetAcceleration(0)
}

// StopAt sets position then stops.
func (v *Vehicle) StopAt(position float64) {
	v.Position = position
	v.Stop()
}

func (v *Vehicle) StopAtSemaphore(semPos float64) {
	v.StopAt(semPos)
	v.Status = WaitingSemaphore
}

func (v *Vehicle) StopAtVehicle(stopPos float64) {
	v.StopAt(stopPos)
	v.Status = WaitingVehicle
}

func (v *Vehicle) GiveWay(pos float64) {
	v.StopAt(pos)
	v.Status = GivingWay
}

// FollowVehicle positions this vehicle gap metres behind lead, matching its
// speed.
func (v *Vehicle) FollowVehicle(leadPosition, leadLength, leadSpeed, gap float64) {
	v.Position = leadPosition - leadLength - gap
	v.SetSpeed(leadSpeed)
	if v.Speed > 0 {
		v.Status = Following
	} else {
		v.Status = WaitingVehicle
	}
}

// Update is the commit-step hook called once per tick: rolls bookkeeping
// counters, appends a history snapshot, and advances LastUpdate.
func (v *Vehicle) Update(t float64, roadID int, coordX, coordY float64) {
	if waitingStatus(v.pastStatus, v.Speed) && v.Speed == 0 {
		v.TimeWaited += t - v.LastUpdate
	}
	if v.IsStopped() && (movingStatus(v.pastStatus) || v.LastUpdate == v.CreationTime) {
		v.NumberOfStops++
	}
	if waitingStatus(v.Status, v.Speed) && v.pastStatus == Created {
		v.DepartDelay = t - v.CreationTime
	}
	v.pastStatus = v.Status
	v.LastUpdate = t
	v.saveState(t, roadID, coordX, coordY)
}

func (v *Vehicle) saveState(t float64, roadID int, coordX, coordY float64) {
	var lastT, lastSpeed float64
	if n := len(v.History); n > 0 {
		lastT = v.History[n-1].Time
		lastSpeed = v.History[n-1].Speed
	} else {
		lastT = v.CreationTime
		lastSpeed = v.Speed
	}
	if t < lastT {
		return
	}
	accel := 0.0
	if t > lastT && t > v.CreationTime {
		accel = (v.Speed - lastSpeed) / (t - lastT)
	}
	v.History = append(v.History, State{
		Time: t, Position: v.Position, CoordX: coordX, CoordY: coordY,
		Speed: v.Speed, Acceleration: accel, Status: v.Status, RoadID: roadID,
	})
}

// TravelTime returns arrival time minus creation time minus depart delay;
// meaningless unless IsArrived().
func (v *Vehicle) TravelTime() float64 {
	return v.ArrivalTime - v.CreationTime - v.DepartDelay
}

// SetArrivalTime marks the vehicle Arrived at t.
func (v *Vehicle) SetArrivalTime(t float64) {
	v.ArrivalTime = t
	v.Status = Arrived
}
