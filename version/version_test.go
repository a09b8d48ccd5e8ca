package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoString(t *testing.T) {
	info := Info{CommitHash: "abc1234", BuildTime: "2026-01-02", Version: "dev"}
	assert.Equal(t, "bspecgen dev (commit abc1234, built 2026-01-02)", info.String())

	info.Version = "0.3.0"
	assert.Equal(t, "bspecgen 0.3.0 (commit abc1234, built 2026-01-02)", info.String())
	assert.Equal(t, "bspecgen/0.3.0", info.Generator())
}

func TestGetFillsRuntime(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestGeneratorStampOmitsBuildDetails(t *testing.T) {
	a := Info{Version: "1.2.0", CommitHash: "abc1234", BuildTime: "2026-01-02"}
	b := Info{Version: "1.2.0", CommitHash: "def5678", BuildTime: "2026-03-04"}
	assert.Equal(t, a.Generator(), b.Generator())

	info := Get()
	assert.Equal(t, info.Generator(), info.Stamp)
}
