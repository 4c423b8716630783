package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-arcade/orgman/internal/engine/errs"
)

func TestReversionErrorAfterCompletedReversion(t *testing.T) {
	err := reversionError("Organization Test #1234", nil)

	assert.Equal(t, errs.KindProcessReversion, errs.KindOf(err))
	assert.Contains(t, err.Error(), "reverted the insertion")
}

func TestReversionErrorWhenDeleteFails(t *testing.T) {
	err := reversionError("Organization Test #1234", errors.New("server selection error"))

	assert.Equal(t, errs.KindInternalFailure, errs.KindOf(err))
	assert.Contains(t, err.Error(), "failed to revert the insertion")
}
