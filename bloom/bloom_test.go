package bloom_test

import (
	"testing"

	"github.com/evidmap/evidmap/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.Test("guid-1"))

	f.Add("guid-1")

	assert.True(t, f.Test("guid-1"))
	assert.False(t, f.Test("guid-2"))
}

func TestFilter_AddIsIdempotent(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	f.Add("guid-1")
	countAfterFirst := f.EstimatedCount()

	f.Add("guid-1")
	f.Add("guid-1")

	assert.Equal(t, countAfterFirst, f.EstimatedCount())
	assert.True(t, f.Test("guid-1"))
}
