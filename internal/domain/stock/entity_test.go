// internal/domain/stock/entity_test.go
package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attire/internal/domain/common"
)

func TestDocID(t *testing.T) {
	assert.Equal(t, "tee-01_M", DocID("tee-01", "M"))
	assert.Equal(t, "tee-01_M", DocID(" tee-01 ", " M "))
}

func TestNormalizeLinesMergesAndSorts(t *testing.T) {
	out, err := NormalizeLines([]Line{
		{ProductID: "tee-01", Size: "M", Qty: 1},
		{ProductID: "cap-01", Size: "F", Qty: 2},
		{ProductID: "tee-01", Size: "M", Qty: 2},
	})
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, Line{ProductID: "cap-01", Size: "F", Qty: 2}, out[0])
	assert.Equal(t, Line{ProductID: "tee-01", Size: "M", Qty: 3}, out[1])
}

func TestNormalizeLinesRejectsBadInput(t *testing.T) {
	var ve *common.ValidationError

	_, err := NormalizeLines(nil)
	assert.ErrorAs(t, err, &ve)

	_, err = NormalizeLines([]Line{{ProductID: "", Size: "M", Qty: 1}})
	assert.ErrorAs(t, err, &ve)

	_, err = NormalizeLines([]Line{{ProductID: "tee-01", Size: "M", Qty: 0}})
	assert.ErrorAs(t, err, &ve)

	// one bad line fails the whole request, nothing is dropped silently
	_, err = NormalizeLines([]Line{
		{ProductID: "tee-01", Size: "M", Qty: 1},
		{ProductID: "tee-01", Size: "L", Qty: -2},
	})
	assert.ErrorAs(t, err, &ve)
}
