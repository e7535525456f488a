package errors

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestWrappedTypesAreDetected(t *testing.T) {
	nf := errors.Wrap(NewNotFoundError("job", 4), "loading job")
	assert.True(t, IsNotFound(nf))
	assert.False(t, IsDataIntegrity(nf))
	assert.Contains(t, nf.Error(), "job 4 not found")

	di := errors.Wrap(NewDataIntegrityError("name %q != %q", "a", "b"), "status")
	assert.True(t, IsDataIntegrity(di))
	assert.False(t, IsNotFound(di))
}

func TestExitCodes(t *testing.T) {
	assert.Nil(t, NewError(nil, ConfigFailureExitCode))
	assert.Equal(t, ExitCode(0), ExitCodeOf(nil))
	assert.Equal(t, ConfigFailureExitCode, ExitCodeOf(NewError(errors.New("x"), ConfigFailureExitCode)))
	assert.Equal(t, GenericFailureExitCode, ExitCodeOf(errors.New("x")))
}
