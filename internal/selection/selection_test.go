package selection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/material-scheduler/internal/catalog"
)

func TestNewDefaults(t *testing.T) {
	s := ForCatalog(catalog.Default())
	for _, e := range s.Entries() {
		assert.False(t, e.Selected)
		assert.Equal(t, 1, e.Quantity)
	}
	assert.False(t, s.AnySelected())
}

func TestToggleKeepsQuantity(t *testing.T) {
	s := New([]string{"A"})
	_, err := s.Adjust("A", Up)
	require.NoError(t, err)

	e, err := s.Toggle("A")
	require.NoError(t, err)
	assert.True(t, e.Selected)
	assert.Equal(t, 2, e.Quantity)

	e, err = s.Toggle("A")
	require.NoError(t, err)
	assert.False(t, e.Selected)
	assert.Equal(t, 2, e.Quantity)
}

func TestAdjustFloorsAtOne(t *testing.T) {
	s := New([]string{"A"})
	for i := 0; i < 25; i++ {
		e, err := s.Adjust("A", Down)
		require.NoError(t, err)
		assert.Equal(t, 1, e.Quantity)
	}

	for i := 0; i < 3; i++ {
		_, err := s.Adjust("A", Up)
		require.NoError(t, err)
	}
	for i := 0; i < 10; i++ {
		e, err := s.Adjust("A", Down)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, e.Quantity, MinQuantity)
	}
	e, err := s.Entry("A")
	require.NoError(t, err)
	assert.Equal(t, 1, e.Quantity)
}

func TestAdjustRejectsBadInput(t *testing.T) {
	s := New([]string{"A"})

	_, err := s.Adjust("A", Direction(2))
	assert.True(t, errors.Is(err, ErrInvalidDirection))

	_, err = s.Adjust("missing", Up)
	assert.True(t, errors.Is(err, catalog.ErrUnknownProduct))

	_, err = s.Toggle("missing")
	assert.True(t, errors.Is(err, catalog.ErrUnknownProduct))
}

func TestSelectedIsLiveAndRestartable(t *testing.T) {
	s := New([]string{"A", "B", "C"})
	_, _ = s.Toggle("C")
	_, _ = s.Toggle("A")

	seq := s.Selected()
	var first []string
	for e := range seq {
		first = append(first, e.ProductID)
	}
	assert.Equal(t, []string{"A", "C"}, first)

	_, _ = s.Toggle("A")
	var second []string
	for e := range seq {
		second = append(second, e.ProductID)
	}
	assert.Equal(t, []string{"C"}, second)
}

func TestSelectedStopsEarly(t *testing.T) {
	s := New([]string{"A", "B"})
	_, _ = s.Toggle("A")
	_, _ = s.Toggle("B")

	count := 0
	for range s.Selected() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestReset(t *testing.T) {
	s := New([]string{"A", "B"})
	_, _ = s.Toggle("A")
	_, _ = s.Adjust("B", Up)

	s.Reset()
	assert.Equal(t, []Entry{
		{ProductID: "A", Quantity: 1},
		{ProductID: "B", Quantity: 1},
	}, s.Entries())
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("UP")
	require.NoError(t, err)
	assert.Equal(t, Up, d)

	d, err = ParseDirection("minus")
	require.NoError(t, err)
	assert.Equal(t, Down, d)

	_, err = ParseDirection("sideways")
	assert.True(t, errors.Is(err, ErrInvalidDirection))
	assert.Equal(t, "down", Down.String())
}
