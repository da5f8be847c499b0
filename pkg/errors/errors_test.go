package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorError(t *testing.T) {
	t.Run("without wrapped error", func(t *testing.T) {
		err := New(CodeInvalidInput, "pool name is empty")
		assert.Equal(t, "[INVALID_INPUT] pool name is empty", err.Error())
	})

	t.Run("with wrapped error", func(t *testing.T) {
		inner := errors.New("boom")
		err := Wrap(CodeArchiveUnreadable, "failed to open archive", inner)
		assert.Equal(t, "[ARCHIVE_UNREADABLE] failed to open archive: boom", err.Error())
	})
}

func TestAppErrorUnwrap(t *testing.T) {
	inner := errors.New("io failure")
	err := Wrap(CodeSnapshotUnreadable, "failed to read entry", inner)

	assert.Equal(t, inner, errors.Unwrap(err))
	assert.True(t, errors.Is(err, inner))
}

func TestAppErrorIs(t *testing.T) {
	err := Wrap(CodeArchiveUnreadable, "failed to open archive x.zip", errors.New("not a zip"))

	assert.True(t, errors.Is(err, ErrArchiveUnreadable))
	assert.False(t, errors.Is(err, ErrSnapshotUnreadable))
	assert.True(t, IsArchiveUnreadable(err))
	assert.False(t, IsSnapshotUnreadable(err))
}

func TestAppErrorIsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("analysis failed: %w", Wrap(CodeSnapshotUnreadable, "entry corrupt", nil))

	assert.True(t, IsSnapshotUnreadable(err))
	assert.False(t, IsArchiveUnreadable(err))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, CodeParseError, GetErrorCode(New(CodeParseError, "bad header")))
	assert.Equal(t, CodeUnknown, GetErrorCode(errors.New("plain error")))
	assert.Equal(t, CodeConfigError, GetErrorCode(fmt.Errorf("outer: %w", New(CodeConfigError, "bad yaml"))))
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, "bad header", GetErrorMessage(New(CodeParseError, "bad header")))
	assert.Equal(t, "plain error", GetErrorMessage(errors.New("plain error")))
	assert.Equal(t, "", GetErrorMessage(nil))
}
