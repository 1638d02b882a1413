// FILE: jsonsieve/src/internal/version/version_test.go
package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionStrings(t *testing.T) {
	saved := Version
	defer func() { Version = saved }()

	Version = "v1.2.3"
	assert.Equal(t, "v1.2.3", Short())
	assert.Equal(t, "jsonsieve/v1.2.3", ServerName())
	assert.Contains(t, String(), "jsonsieve v1.2.3 (commit: ")
	assert.Equal(t, "v1.2.3", Info()["version"])
	assert.NotEmpty(t, Info()["go"])
}
