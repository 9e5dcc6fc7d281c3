package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPost_IsLinked(t *testing.T) {
	assert.False(t, (&Post{}).IsLinked())
	assert.True(t, (&Post{GitHubURL: "https://github.com/o/r/blob/main/p.md"}).IsLinked())
}

func TestPost_HasCommit(t *testing.T) {
	post := &Post{AppliedCommits: []string{"abc", "def"}}

	assert.True(t, post.HasCommit("abc"))
	assert.True(t, post.HasCommit("def"))
	assert.False(t, post.HasCommit("123"))
	assert.False(t, (&Post{}).HasCommit("abc"))
}

func TestPushEvent_Branch(t *testing.T) {
	event := &PushEvent{Ref: "refs/heads/master"}

	assert.Equal(t, "master", event.Branch())
}
