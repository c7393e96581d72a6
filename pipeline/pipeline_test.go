package pipeline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-pipeline/signal"
)

// double multiplies every element by 2.
func double() *Callable {
	c, _ := NewCallable(func(data Data) (Data, error) {
		buf := data.(*signal.Buffer)
		out := buf.Clone()
		vec := out.Vector()
		for i := range vec {
			vec[i] *= 2
		}
		return out, nil
	}, WithName("double"))
	return c
}

// addOne adds 1 to every element.
func addOne() *Callable {
	c, _ := NewCallable(func(data Data) (Data, error) {
		buf := data.(*signal.Buffer)
		out := buf.Clone()
		vec := out.Vector()
		for i := range vec {
			vec[i]++
		}
		return out, nil
	}, WithName("addOne"))
	return c
}

func failing(name string) *Callable {
	c, _ := NewCallable(func(Data) (Data, error) {
		return nil, fmt.Errorf("%w: boom", ErrInvalidInput)
	}, WithName(name))
	return c
}

func TestSingleBlockPipelineEquivalence(t *testing.T) {
	in := signal.FromVector([]float64{1, 2, 3})

	direct, err := double().Process(in)
	require.NoError(t, err)

	p, err := New(Chain(double()))
	require.NoError(t, err)
	piped, err := p.Process(in)
	require.NoError(t, err)

	assert.True(t, direct.(*signal.Buffer).Equal(piped.(*signal.Buffer), 0))
}

func TestSeriesThreadsOutputs(t *testing.T) {
	p, err := New(Chain(double(), addOne()))
	require.NoError(t, err)

	out, err := p.Process(signal.FromVector([]float64{1, 2}))
	require.NoError(t, err)

	// (x*2)+1
	assert.Equal(t, []float64{3, 5}, out.(*signal.Buffer).Vector())
}

func TestParallelFansOutInput(t *testing.T) {
	p, err := New(FanOut(double(), addOne()))
	require.NoError(t, err)

	out, err := p.Process(signal.FromVector([]float64{1, 2}))
	require.NoError(t, err)

	group, ok := out.(Group)
	require.True(t, ok)
	require.Len(t, group, 2)
	assert.Equal(t, []float64{2, 4}, group[0].(*signal.Buffer).Vector())
	assert.Equal(t, []float64{2, 3}, group[1].(*signal.Buffer).Vector())
}

func TestNestedTopology(t *testing.T) {
	// double, then fan out into addOne and double
	topo := Series(
		Leaf(double()),
		Parallel(
			Leaf(addOne()),
			Leaf(namedDouble("inner")),
		),
	)
	p, err := New(topo)
	require.NoError(t, err)

	out, err := p.Process(signal.FromVector([]float64{1}))
	require.NoError(t, err)

	group := out.(Group)
	assert.Equal(t, []float64{3}, group[0].(*signal.Buffer).Vector())
	assert.Equal(t, []float64{4}, group[1].(*signal.Buffer).Vector())
}

// namedDouble returns a doubling block under a caller-chosen name.
func namedDouble(name string) *Callable {
	c, _ := NewCallable(func(data Data) (Data, error) {
		buf := data.(*signal.Buffer)
		out := buf.Clone()
		vec := out.Vector()
		for i := range vec {
			vec[i] *= 2
		}
		return out, nil
	}, WithName(name))
	return c
}

func TestPipelineIsABlock(t *testing.T) {
	inner, err := New(Chain(double()), WithName("inner"))
	require.NoError(t, err)

	outer, err := New(Chain(inner, addOne()))
	require.NoError(t, err)

	out, err := outer.Process(signal.FromVector([]float64{2}))
	require.NoError(t, err)
	assert.Equal(t, []float64{5}, out.(*signal.Buffer).Vector())
}

func TestErrorPropagatesUnmodified(t *testing.T) {
	p, err := New(Chain(double(), failing("bad"), addOne()))
	require.NoError(t, err)

	_, err = p.Process(signal.FromVector([]float64{1}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "boom")
}

func TestParallelStopsAtFirstError(t *testing.T) {
	calls := 0
	after, err := NewCallable(func(data Data) (Data, error) {
		calls++
		return data, nil
	}, WithName("after"))
	require.NoError(t, err)

	p, err := New(FanOut(failing("bad"), after))
	require.NoError(t, err)

	_, err = p.Process(signal.FromVector([]float64{1}))
	require.Error(t, err)
	assert.Equal(t, 0, calls)
}

func TestHooksFireAfterProcess(t *testing.T) {
	var seen []float64
	hook := func(data Data) {
		seen = append(seen, data.(*signal.Buffer).Vector()...)
	}
	b, err := NewCallable(func(data Data) (Data, error) {
		return data, nil
	}, WithName("observed"), WithHooks(hook))
	require.NoError(t, err)

	p, err := New(Chain(b))
	require.NoError(t, err)

	_, err = p.Process(signal.FromVector([]float64{7, 8}))
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 8}, seen)
}

func TestHooksNotFiredOnError(t *testing.T) {
	fired := false
	b, err := NewCallable(func(Data) (Data, error) {
		return nil, fmt.Errorf("%w: nope", ErrInvalidInput)
	}, WithName("failing"), WithHooks(func(Data) { fired = true }))
	require.NoError(t, err)

	p, err := New(Chain(b))
	require.NoError(t, err)

	_, err = p.Process(signal.FromVector([]float64{1}))
	require.Error(t, err)
	assert.False(t, fired)
}

func TestNamedBlockLookup(t *testing.T) {
	d := double()
	p, err := New(Chain(d, addOne()))
	require.NoError(t, err)

	got, ok := p.Block("double")
	require.True(t, ok)
	assert.Same(t, Block(d), got)

	_, ok = p.Block("missing")
	assert.False(t, ok)

	assert.Len(t, p.NamedBlocks(), 2)
}

func TestDuplicateNameRejected(t *testing.T) {
	_, err := New(Chain(double(), double()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestEmptyGroupRejected(t *testing.T) {
	_, err := New(Series())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig))

	_, err = New(Parallel())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestNilLeafRejected(t *testing.T) {
	_, err := New(Leaf(nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestClearReachesEveryBlock(t *testing.T) {
	w1, err := NewWindower(4, WithName("w1"))
	require.NoError(t, err)
	w2, err := NewWindower(4, WithName("w2"))
	require.NoError(t, err)

	p, err := New(Parallel(Leaf(w1), Leaf(w2)))
	require.NoError(t, err)

	_, err = p.Process(signal.FromRows([][]float64{{1, 2}}))
	require.NoError(t, err)

	p.Clear()

	// After Clear both windowers start from zero history again.
	out, err := p.Process(signal.FromRows([][]float64{{1, 2}}))
	require.NoError(t, err)
	group := out.(Group)
	want := []float64{0, 0, 1, 2}
	assert.Equal(t, want, group[0].(*signal.Buffer).Vector())
	assert.Equal(t, want, group[1].(*signal.Buffer).Vector())
}

func TestCallableRequiresFunc(t *testing.T) {
	_, err := NewCallable(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestDefaultAndOverriddenNames(t *testing.T) {
	w, err := NewWindower(4)
	require.NoError(t, err)
	assert.Equal(t, "Windower", w.Name())

	w, err = NewWindower(4, WithName("ring"))
	require.NoError(t, err)
	assert.Equal(t, "ring", w.Name())
}
