package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUUIDint64Unique(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		id := UUIDint64()
		assert.Greater(t, id, int64(0))
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestUUIDStringForm(t *testing.T) {
	a := UUID()
	b := UUID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
