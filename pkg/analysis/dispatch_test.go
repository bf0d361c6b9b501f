package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchSingleItemModes(t *testing.T) {
	for _, mode := range []Mode{ModePost, ModeReply, ModeIdeate} {
		n, err := Normalize("raw idea", mode)
		require.NoError(t, err)

		req, err := Dispatch(mode, n, Identity{Handle: "alpha"})
		require.NoError(t, err)
		assert.Equal(t, "raw idea", req.Input)
		assert.Empty(t, req.Items)
		assert.Empty(t, req.Handle)
		assert.Equal(t, mode.Endpoint(), req.Endpoint())
	}
}

func TestDispatchMultiItemModes(t *testing.T) {
	n, err := Normalize("Tweet A\n\n---\n\nTweet B", ModeNiche)
	require.NoError(t, err)

	req, err := Dispatch(ModeNiche, n, Identity{Handle: "@alpha"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Tweet A", "Tweet B"}, req.Items)
	assert.Equal(t, "alpha", req.Handle)
	assert.Equal(t, "/niche", req.Endpoint())

	req, err = Dispatch(ModeAudit, n, Identity{})
	require.NoError(t, err)
	assert.Equal(t, DefaultHandle, req.Handle)
	assert.Equal(t, "/audit", req.Endpoint())
}

func TestDispatchGuideAlwaysFails(t *testing.T) {
	inputs := []NormalizedInput{
		{},
		{Text: "hello"},
		{Items: []string{"a", "b"}},
	}
	for _, n := range inputs {
		_, err := Dispatch(ModeGuide, n, Identity{Handle: "alpha"})
		var unsupported *UnsupportedModeError
		require.ErrorAs(t, err, &unsupported)
	}
}
