package simerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := NewConfigError("vehicleTypes[0].length", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "vehicleTypes[0].length")
}

func TestTopologyErrorWithoutCause(t *testing.T) {
	err := NewTopologyError("junction j1 has no outgoing roads", nil)
	assert.Equal(t, "topology: junction j1 has no outgoing roads", err.Error())
}

func TestStateErrorFormatsVehicleAndTick(t *testing.T) {
	err := NewStateError(42, 17.5, errors.New("negative position"))
	assert.Contains(t, err.Error(), "vehicle 42")
	assert.Contains(t, err.Error(), "17.50")
}
