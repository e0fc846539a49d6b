package undo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunoga/undo"
)

// stepClock is a host supplied time source.
type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time { return c.now }

type gauge struct {
	Level int
}

func TestWithClock_HostClock(t *testing.T) {
	clk := &stepClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	var c undo.Clock = clk
	ctrl := undo.NewController(undo.WithClock(c), undo.WithMergeSpan(time.Second))
	g := &gauge{}

	_, err := ctrl.ExecuteSetProperty(g, "Level", 1)
	require.NoError(t, err)
	_, err = ctrl.ExecuteSetProperty(g, "Level", 2)
	require.NoError(t, err)
	assert.Equal(t, 1, ctrl.UndoCount())

	clk.now = clk.now.Add(time.Minute)
	_, err = ctrl.ExecuteSetProperty(g, "Level", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, ctrl.UndoCount())
}

func TestWithClock_Nil(t *testing.T) {
	ctrl := undo.NewController(undo.WithClock(nil))
	g := &gauge{}

	_, err := ctrl.ExecuteSetProperty(g, "Level", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Level)
}
