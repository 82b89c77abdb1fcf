package comment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComment_ToggleLike(t *testing.T) {
	c := &Comment{}
	require.False(t, c.LikedBy("u1"))

	c.ToggleLike("u1")
	c.ToggleLike("u2")
	require.True(t, c.LikedBy("u1"))
	require.Equal(t, []string{"u1", "u2"}, c.Likes)

	c.ToggleLike("u1")
	require.False(t, c.LikedBy("u1"))
	require.Equal(t, []string{"u2"}, c.Likes)

	require.False(t, c.LikedBy(""), "anonymous readers never like")
}
