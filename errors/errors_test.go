package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	original := New("disk full")
	wrapped := Wrapf(original, "failed to write %s", "bspec-v1-0-0.tgz")

	assert.Contains(t, wrapped.Error(), "failed to write bspec-v1-0-0.tgz")
	assert.Contains(t, wrapped.Error(), "disk full")
	assert.True(t, Is(wrapped, original))
}

func TestMarkedSentinels(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		invariant bool
		artifact  bool
	}{
		{
			name:      "invariant",
			err:       NewInvariantError("documents[%q] holds record %q", "MSN", "VSN"),
			invariant: true,
		},
		{
			name:     "artifact",
			err:      NewArtifactError("member %s missing", "model.json"),
			artifact: true,
		},
		{
			name:     "wrapped artifact",
			err:      Wrap(NewArtifactError("not gzip"), "failed to unpack"),
			artifact: true,
		},
		{
			name: "plain",
			err:  New("plain failure"),
		},
		{
			name: "nil",
			err:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.invariant, IsInvariantError(tt.err))
			assert.Equal(t, tt.artifact, IsArtifactError(tt.err))
		})
	}
}

func TestMarkKeepsMessage(t *testing.T) {
	err := NewArtifactError("member %s missing", "manifest.json")
	assert.Equal(t, "member manifest.json missing", err.Error())
}

func TestWithHint(t *testing.T) {
	err := WithHint(Mark(New("bad marker"), ErrInvalidVersion), "use a bare semantic version such as 1.2.0")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "use a bare semantic version such as 1.2.0", hints[0])
	assert.True(t, Is(err, ErrInvalidVersion))
}

func TestCombineErrors(t *testing.T) {
	first := New("first")
	second := New("second")

	combined := CombineErrors(first, second)
	assert.True(t, Is(combined, first))
	assert.Nil(t, CombineErrors(nil, nil))
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithStack(nil))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WithDetail(nil, "detail"))
}

func ExampleWrap() {
	baseErr := New("permission denied")
	err := Wrap(baseErr, "failed to write output tree")
	fmt.Println(err)
	// Output: failed to write output tree: permission denied
}
