package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-pipeline/signal"
)

func TestWindowerSlides(t *testing.T) {
	w, err := NewWindower(4)
	require.NoError(t, err)

	out, err := w.Process(signal.FromRows([][]float64{{1, 2}, {3, 4}}))
	require.NoError(t, err)
	want := signal.FromRows([][]float64{{0, 0, 1, 2}, {0, 0, 3, 4}})
	assert.True(t, out.(*signal.Buffer).Equal(want, 0),
		"first window = %v", out.(*signal.Buffer).Vector())

	out, err = w.Process(signal.FromRows([][]float64{{7, 8}, {5, 6}}))
	require.NoError(t, err)
	want = signal.FromRows([][]float64{{1, 2, 7, 8}, {3, 4, 5, 6}})
	assert.True(t, out.(*signal.Buffer).Equal(want, 0),
		"second window = %v", out.(*signal.Buffer).Vector())
}

func TestWindowerClearRestarts(t *testing.T) {
	w, err := NewWindower(4)
	require.NoError(t, err)

	_, err = w.Process(signal.FromRows([][]float64{{1, 2}, {3, 4}}))
	require.NoError(t, err)

	w.Clear()

	out, err := w.Process(signal.FromRows([][]float64{{1, 2}, {3, 4}}))
	require.NoError(t, err)
	want := signal.FromRows([][]float64{{0, 0, 1, 2}, {0, 0, 3, 4}})
	assert.True(t, out.(*signal.Buffer).Equal(want, 0))
}

func TestWindowerFullLengthChunk(t *testing.T) {
	w, err := NewWindower(3)
	require.NoError(t, err)

	out, err := w.Process(signal.FromRows([][]float64{{1, 2, 3}}))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, out.(*signal.Buffer).Vector())

	out, err = w.Process(signal.FromRows([][]float64{{4, 5, 6}}))
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 6}, out.(*signal.Buffer).Vector())
}

func TestWindowerVaryingChunkLength(t *testing.T) {
	w, err := NewWindower(5)
	require.NoError(t, err)

	_, err = w.Process(signal.FromRows([][]float64{{1, 2, 3}}))
	require.NoError(t, err)

	out, err := w.Process(signal.FromRows([][]float64{{4}}))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, out.(*signal.Buffer).Vector())
}

func TestWindowerOutputIsACopy(t *testing.T) {
	w, err := NewWindower(2)
	require.NoError(t, err)

	out, err := w.Process(signal.FromRows([][]float64{{1, 2}}))
	require.NoError(t, err)
	out.(*signal.Buffer).Set(0, 0, 99)

	out2, err := w.Process(signal.FromRows([][]float64{{3}}))
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, out2.(*signal.Buffer).Vector())
}

func TestWindowerRejectsOversizedChunk(t *testing.T) {
	w, err := NewWindower(2)
	require.NoError(t, err)

	_, err = w.Process(signal.FromRows([][]float64{{1, 2, 3}}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestWindowerRejectsRank1(t *testing.T) {
	w, err := NewWindower(4)
	require.NoError(t, err)

	_, err = w.Process(signal.FromVector([]float64{1, 2}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestWindowerRejectsChannelChange(t *testing.T) {
	w, err := NewWindower(4)
	require.NoError(t, err)

	_, err = w.Process(signal.FromRows([][]float64{{1, 2}}))
	require.NoError(t, err)

	_, err = w.Process(signal.FromRows([][]float64{{1, 2}, {3, 4}}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	// clearing lifts the restriction
	w.Clear()
	_, err = w.Process(signal.FromRows([][]float64{{1, 2}, {3, 4}}))
	assert.NoError(t, err)
}

func TestWindowerRejectsBadLength(t *testing.T) {
	_, err := NewWindower(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig))
}
