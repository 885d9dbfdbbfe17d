package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInjectedVersion(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })

	Version, Commit, Date = "v1.2.0", "abc1234", "2026-10-18 12:00:00"

	info := GetBuildInfo()
	assert.Equal(t, "v1.2.0", info.Version)
	assert.Equal(t, "abc1234", info.Commit)
	assert.Equal(t, "v1.2.0, commit abc1234, built at 2026-10-18 12:00:00", GetVersionString())
}
