package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassFilterNormalize(t *testing.T) {
	f := ClassFilter{Page: -3, Limit: 0}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultClassLimit, f.Limit)
	assert.Zero(t, f.Offset())

	f = ClassFilter{Page: 3, Limit: 500}.Normalize()
	assert.Equal(t, MaxClassLimit, f.Limit)
	assert.Equal(t, 2*MaxClassLimit, f.Offset())
}

func TestClassFilterOffsetStaysInRange(t *testing.T) {
	f := ClassFilter{Page: math.MaxInt64 / 50, Limit: MaxClassLimit}.Normalize()

	assert.Equal(t, MaxClassPage, f.Page)
	assert.GreaterOrEqual(t, f.Offset(), 0)
	assert.LessOrEqual(t, f.Offset(), math.MaxInt32)
}
