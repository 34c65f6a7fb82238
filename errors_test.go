//go:build linux || darwin

package reactor

import (
	"errors"
	"io"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTaxonomy_Is(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		cause    error
	}{
		{
			name:     "construction",
			err:      &ConstructionError{Op: "epoll_create1", Err: syscall.EMFILE},
			sentinel: ErrConstruction,
			cause:    syscall.EMFILE,
		},
		{
			name:     "timer creation",
			err:      &TimerCreationError{Op: "timerfd_create", Err: syscall.ENFILE},
			sentinel: ErrConstruction,
			cause:    syscall.ENFILE,
		},
		{
			name:     "registration",
			err:      &RegistrationError{Descriptor: 7, Err: ErrDescriptorRegistered},
			sentinel: ErrRegistration,
			cause:    ErrDescriptorRegistered,
		},
		{
			name:     "runtime wait",
			err:      &RuntimeWaitError{Err: syscall.EBADF},
			sentinel: ErrRuntimeWait,
			cause:    syscall.EBADF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.ErrorIs(t, tt.err, tt.cause)
			assert.NotErrorIs(t, tt.err, ErrReactorStopped)
		})
	}
}

func TestErrorTaxonomy_Messages(t *testing.T) {
	assert.Equal(t, "reactor: epoll_create1: too many open files",
		(&ConstructionError{Op: "epoll_create1", Err: syscall.EMFILE}).Error())
	assert.Equal(t, "reactor: timer period: duration must be positive",
		(&TimerCreationError{Op: "period", Err: errors.New("duration must be positive")}).Error())
	assert.Equal(t, "reactor: register fd 7: reactor: descriptor already registered",
		(&RegistrationError{Descriptor: 7, Err: ErrDescriptorRegistered}).Error())
	assert.Equal(t, "reactor: epoll_wait: bad file descriptor",
		(&RuntimeWaitError{Err: syscall.EBADF}).Error())
}

func TestErrorTaxonomy_As(t *testing.T) {
	var err error = &RegistrationError{Descriptor: 3, Err: syscall.EPERM}

	var regErr *RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, 3, regErr.Descriptor)

	var waitErr *RuntimeWaitError
	assert.False(t, errors.As(err, &waitErr))
}

func TestPanicError(t *testing.T) {
	t.Run("error value", func(t *testing.T) {
		err := PanicError{Value: io.ErrClosedPipe}
		assert.ErrorIs(t, err, io.ErrClosedPipe)
		assert.Contains(t, err.Error(), "io: read/write on closed pipe")
	})

	t.Run("non-error value", func(t *testing.T) {
		err := PanicError{Value: 42}
		assert.Nil(t, err.Unwrap())
		assert.Equal(t, "reactor: callback panicked: 42", err.Error())
	})

	t.Run("as", func(t *testing.T) {
		var err error = PanicError{Value: "boom"}
		var pe PanicError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "boom", pe.Value)
	})
}
