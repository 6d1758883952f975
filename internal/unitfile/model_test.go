package unitfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupLastIsLastWins(t *testing.T) {
	u := NewUnit("test.container")
	u.Append("Container", "Image", "alpine:3.18")
	u.Append("Container", "Image", "alpine:3.19")

	v, ok := u.LookupLast("Container", "Image")
	assert.True(t, ok)
	assert.Equal(t, "alpine:3.19", v)
}

func TestLookupAllPreservesInsertionOrder(t *testing.T) {
	u := NewUnit("test.container")
	u.Append("Container", "Environment", "A=1")
	u.Append("Container", "Environment", "B=2")
	u.Append("Container", "Environment", "A=1")

	assert.Equal(t, []string{"A=1", "B=2", "A=1"}, u.LookupAll("Container", "Environment"))
}

func TestLookupMissingKey(t *testing.T) {
	u := NewUnit("test.container")
	_, ok := u.LookupLast("Container", "Image")
	assert.False(t, ok)
	assert.Nil(t, u.LookupAll("Container", "Environment"))
}

func TestSetReplacesAllPriorOccurrences(t *testing.T) {
	u := NewUnit("test.container")
	u.Append("Container", "Image", "alpine:3.18")
	u.Append("Container", "Image", "alpine:3.19")
	u.Set("Container", "Image", "alpine:3.20")

	assert.Equal(t, []string{"alpine:3.20"}, u.LookupAll("Container", "Image"))
}

func TestAddSectionNeverMerges(t *testing.T) {
	u := NewUnit("test.container")
	u.AddSection("Container")
	u.AddSection("Container")
	assert.Len(t, u.Sections, 2)

	u.Append("Container", "Image", "alpine")
	assert.True(t, u.HasSection("Container"))
}

func TestLookupBool(t *testing.T) {
	u := NewUnit("test.container")
	u.Set("Container", "ReadOnly", "yes")
	v, ok := u.LookupBool("Container", "ReadOnly")
	assert.True(t, ok)
	assert.True(t, v)

	u.Set("Container", "ReadOnly", "0")
	v, ok = u.LookupBool("Container", "ReadOnly")
	assert.True(t, ok)
	assert.False(t, v)

	_, ok = u.LookupBool("Container", "Missing")
	assert.False(t, ok)
}

func TestIsAmbiguousBool(t *testing.T) {
	assert.False(t, IsAmbiguousBool("yes"))
	assert.False(t, IsAmbiguousBool("FALSE"))
	assert.True(t, IsAmbiguousBool("maybe"))
}

func TestAmbiguousBoolKeys(t *testing.T) {
	u := NewUnit("web.container")
	u.Set("Container", "ReadOnly", "maybe")
	u.Set("Container", "NoNewPrivileges", "yes")

	got := u.AmbiguousBoolKeys("Container", "ReadOnly", "NoNewPrivileges", "SecurityLabelDisable")
	assert.Equal(t, []string{"ReadOnly"}, got)
}
