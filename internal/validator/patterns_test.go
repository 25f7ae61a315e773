package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatternMatchLiteralCaseFolding(t *testing.T) {
	t.Parallel()

	p := Pattern{Pattern: "try to"}

	// Case folding changes rune widths: Ⱥ lowers to a wider rune, İ to
	// a narrower one. Neither may corrupt the reported match.
	assert.Equal(t, "try to", p.Match("ȺȺȺ try to validate"))
	assert.Equal(t, "Try To", p.Match("İİİ Try To validate"))
	assert.Equal(t, "", p.Match("İİİ nothing firm here"))
}

func TestPatternMatchLiteralKeepsOriginalCasing(t *testing.T) {
	t.Parallel()

	p := Pattern{Pattern: "as needed"}
	assert.Equal(t, "As Needed", p.Match("Apply formatting As Needed."))
}

func TestPatternMatchInvalidRegex(t *testing.T) {
	t.Parallel()

	p := Pattern{Pattern: "(", IsRegex: true}
	assert.Equal(t, "", p.Match("(anything"))
}
