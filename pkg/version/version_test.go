package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionString(t *testing.T) {
	orig := GitCommit
	defer func() { GitCommit = orig }()

	GitCommit = ""
	assert.Equal(t, Version(), GetVersionString())

	GitCommit = "0123456789abcdef"
	assert.Equal(t, Version()+" (0123456)", GetVersionString())
	assert.True(t, strings.HasPrefix(GetFullVersionString(), "Whale Scanner v"+Version()))
}
