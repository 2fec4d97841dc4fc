package errors

import (
	stderrors "errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseError(t *testing.T) {
	err := Wrap(FileSystemErrorCode, "failed to write", fs.ErrPermission).
		WithLocation(SourceLocation{File: "app/listeners.go", Line: 3}).
		WithContext("path", "app/listeners.go").
		WithSuggestions("Check permissions")

	assert.Equal(t, "app/listeners.go:3: failed to write: permission denied", err.Error())
	assert.Equal(t, FileSystemErrorCode, err.ErrorCode())
	assert.Equal(t, "app/listeners.go", err.Context()["path"])
	assert.Equal(t, []string{"Check permissions"}, err.Suggestions())
	assert.True(t, Is(err, fs.ErrPermission))
}

func TestSourceLocation_String(t *testing.T) {
	assert.Equal(t, "unknown location", SourceLocation{}.String())
	assert.Equal(t, "a.go", SourceLocation{File: "a.go"}.String())
	assert.Equal(t, "a.go:4", SourceLocation{File: "a.go", Line: 4}.String())
	assert.Equal(t, "a.go:4:2", SourceLocation{File: "a.go", Line: 4, Column: 2}.String())
}

func TestMultipleErrors(t *testing.T) {
	var multiple *MultipleErrors
	assert.NoError(t, multiple.ErrOrNil())

	cause := stderrors.New("boom")
	AddToMultiple(&multiple, WrapGenerateError("a.go", cause))
	assert.Equal(t, "failed to generate a.go: boom", multiple.Error())

	AddToMultiple(&multiple, ConfigurationError("gmapwire.yaml", "bad helper"))
	require.Error(t, multiple.ErrOrNil())
	assert.Contains(t, multiple.Error(), "multiple errors (2 total)")
	assert.Equal(t, GenerationErrorCode, multiple.Errors[0].ErrorCode())
	assert.Equal(t, ConfigurationErrorCode, multiple.Errors[1].ErrorCode())
	assert.True(t, Is(multiple, cause))
}

func TestCodeOf(t *testing.T) {
	wrapped := WrapLoadError([]string{"./..."}, stderrors.New("no packages"))
	assert.Equal(t, LoadErrorCode, CodeOf(wrapped))
	assert.Equal(t, "LoadError", CodeOf(wrapped).String())
	assert.Equal(t, UnknownErrorCode, CodeOf(stderrors.New("plain")))
}
