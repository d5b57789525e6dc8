package pgerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestCodes(t *testing.T) {
	unique := &pq.Error{Code: CodeUniqueViolation}
	serialization := &pq.Error{Code: CodeSerializationFailure}

	assert.True(t, IsUniqueViolation(fmt.Errorf("wrapped: %w", unique)))
	assert.False(t, IsUniqueViolation(serialization))
	assert.True(t, IsSerializationFailure(serialization))
	assert.True(t, IsSerializationFailure(&pq.Error{Code: CodeDeadlockDetected}))
	assert.False(t, IsSerializationFailure(errors.New("plain")))
}
