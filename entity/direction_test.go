package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/intersection-sim/entity"
)

func TestDirectionRotation(t *testing.T) {
	left := map[entity.Direction]entity.Direction{
		entity.North: entity.East,
		entity.South: entity.West,
		entity.East:  entity.South,
		entity.West:  entity.North,
	}
	opposite := map[entity.Direction]entity.Direction{
		entity.North: entity.South,
		entity.South: entity.North,
		entity.East:  entity.West,
		entity.West:  entity.East,
	}
	right := map[entity.Direction]entity.Direction{
		entity.North: entity.West,
		entity.South: entity.East,
		entity.East:  entity.North,
		entity.West:  entity.South,
	}
	for _, d := range entity.Directions {
		assert.Equal(t, left[d], d.Left(), "left of %v", d)
		assert.Equal(t, opposite[d], d.Opposite(), "opposite of %v", d)
		assert.Equal(t, right[d], d.Right(), "right of %v", d)
	}
}

func TestDirectionIdentities(t *testing.T) {
	for _, d := range entity.Directions {
		assert.Equal(t, d, d.Left().Right())
		assert.Equal(t, d, d.Right().Left())
		assert.Equal(t, d, d.Opposite().Opposite())
		assert.Equal(t, d.Opposite(), d.Left().Left())
	}
}

func TestDirectionLeftFormsSingleCycle(t *testing.T) {
	seen := map[entity.Direction]bool{}
	d := entity.North
	for i := 0; i < 4; i++ {
		assert.False(t, seen[d], "direction %v visited twice", d)
		seen[d] = true
		d = d.Left()
	}
	assert.Equal(t, entity.North, d)
	assert.Len(t, seen, 4)
}

func TestParseDirection(t *testing.T) {
	cases := map[string]entity.Direction{
		"north": entity.North,
		"sOuth": entity.South,
		"easT":  entity.East,
		"weSt":  entity.West,
		"NORTH": entity.North,
	}
	for in, want := range cases {
		got, err := entity.ParseDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := entity.ParseDirection("up")
	assert.ErrorIs(t, err, entity.ErrInvalidDirection)
	_, err = entity.ParseDirection("")
	assert.ErrorIs(t, err, entity.ErrInvalidDirection)
	// 名称必须完全匹配，不做空白裁剪
	_, err = entity.ParseDirection(" north ")
	assert.ErrorIs(t, err, entity.ErrInvalidDirection)
}

func TestDirectionText(t *testing.T) {
	var d entity.Direction
	require.NoError(t, d.UnmarshalText([]byte("West")))
	assert.Equal(t, entity.West, d)
	b, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "west", string(b))
	assert.Error(t, d.UnmarshalText([]byte("nowhere")))
}

func TestTurnTo(t *testing.T) {
	src := entity.South
	turn, err := src.TurnTo(entity.West)
	require.NoError(t, err)
	assert.Equal(t, entity.TurnLeft, turn)

	turn, err = src.TurnTo(entity.North)
	require.NoError(t, err)
	assert.Equal(t, entity.TurnStraight, turn)

	turn, err = src.TurnTo(entity.East)
	require.NoError(t, err)
	assert.Equal(t, entity.TurnRight, turn)

	_, err = src.TurnTo(entity.South)
	assert.ErrorIs(t, err, entity.ErrInvalidDestination)
}

func TestLeftTurnBuffer(t *testing.T) {
	var b entity.LeftTurnBuffer
	assert.True(t, b.Empty())
	assert.Nil(t, b.Pop())

	v1 := &entity.Vehicle{ID: "v1", Destination: entity.East}
	v2 := &entity.Vehicle{ID: "v2", Destination: entity.East}
	assert.True(t, b.Put(v1))
	assert.False(t, b.Put(v2), "buffer holds a single vehicle")
	assert.Equal(t, v1, b.Peek())
	assert.Equal(t, v1, b.Pop())
	assert.True(t, b.Empty())
}
