package task_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/intersection-sim/entity"
	"github.com/tsinghua-fib-lab/intersection-sim/entity/junction"
	"github.com/tsinghua-fib-lab/intersection-sim/task"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/config"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/input"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/output"
)

func addVehicle(id, start, end string) input.Command {
	return input.Command{Type: "addVehicle", VehicleID: id, StartRoad: start, EndRoad: end}
}

func step() input.Command {
	return input.Command{Type: "step"}
}

func vehiclesLeft(o *output.Output) [][]string {
	return lo.Map(o.StepStatuses, func(s output.StepStatus, _ int) []string { return s.VehiclesLeft })
}

func TestRunSingleVehicle(t *testing.T) {
	ctx, err := task.NewContext(config.Default(), []input.Command{
		addVehicle("vehicle1", "north", "south"),
		step(),
	})
	require.NoError(t, err)

	out, err := ctx.Run()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"vehicle1"}}, vehiclesLeft(out))
}

func TestRunMultipleVehicles(t *testing.T) {
	ctx, err := task.NewContext(config.Default(), []input.Command{
		addVehicle("vehicle1", "north", "south"),
		addVehicle("vehicle2", "south", "east"),
		step(),
		step(),
	})
	require.NoError(t, err)

	out, err := ctx.Run()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"vehicle1", "vehicle2"}, {}}, vehiclesLeft(out))

	s := ctx.Status()
	assert.Equal(t, int32(2), s.Step)
	assert.Equal(t, 2, s.Entered)
	assert.Equal(t, 2, s.Crossed)
	assert.Equal(t, 0, s.Queued)
	assert.Equal(t, int64(4), ctx.Clock().Commands)
}

func TestRunDirectionNamesAreCaseInsensitive(t *testing.T) {
	ctx, err := task.NewContext(config.Default(), []input.Command{
		addVehicle("vehicle1", "NORTH", "South"),
		step(),
	})
	require.NoError(t, err)

	out, err := ctx.Run()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"vehicle1"}}, vehiclesLeft(out))
}

func TestRoadOrderFollowsFirstVehicle(t *testing.T) {
	ctx, err := task.NewContext(config.Default(), []input.Command{
		step(),
		addVehicle("vehicle1", "east", "west"),
	})
	require.NoError(t, err)

	roads := ctx.RoadManager().Roads()
	assert.Equal(t,
		[]entity.Direction{entity.East, entity.North, entity.West, entity.South},
		lo.Map(roads[:], func(r entity.IRoad, _ int) entity.Direction { return r.Direction() }),
	)
}

func TestNewContextInvalidConfig(t *testing.T) {
	commands := []input.Command{addVehicle("vehicle1", "north", "south")}
	cases := map[string]func(c *config.Config){
		"lanes":     func(c *config.Config) { c.NumberOfLanes = 0 },
		"duration":  func(c *config.Config) { c.GreenLightDuration = 3 },
		"extension": func(c *config.Config) { c.GreenLightExtension = -1 },
		"commands":  func(c *config.Config) { c.SimulationStepCommandString = c.AddVehicleCommandString },
	}
	for name, modify := range cases {
		c := config.Default()
		modify(&c)
		_, err := task.NewContext(c, commands)
		assert.ErrorIs(t, err, config.ErrInvalidConfig, name)
	}
}

func TestNewContextMissingStartRoad(t *testing.T) {
	_, err := task.NewContext(config.Default(), []input.Command{
		{Type: "addVehicle", VehicleID: "vehicle1", EndRoad: "south"},
	})
	assert.ErrorIs(t, err, task.ErrMissingStartRoad)

	_, err = task.NewContext(config.Default(), []input.Command{step()})
	assert.ErrorIs(t, err, task.ErrMissingStartRoad)

	_, err = task.NewContext(config.Default(), []input.Command{addVehicle("vehicle1", "up", "south")})
	assert.ErrorIs(t, err, entity.ErrInvalidDirection)
}

func TestRunStopsAtFailingCommand(t *testing.T) {
	cases := []struct {
		name    string
		command input.Command
		target  error
	}{
		{"unknown", input.Command{Type: "unknownCommand"}, task.ErrUnknownCommand},
		{"u-turn", addVehicle("vehicle2", "south", "south"), entity.ErrInvalidDestination},
		{"direction", addVehicle("vehicle2", "south", "nowhere"), entity.ErrInvalidDirection},
		{"missing id", addVehicle("", "south", "north"), task.ErrMissingVehicleID},
		{"missing end", addVehicle("vehicle2", "south", ""), task.ErrMissingEndRoad},
		{"missing start", addVehicle("vehicle2", "", "north"), entity.ErrInvalidDirection},
	}
	for _, c := range cases {
		ctx, err := task.NewContext(config.Default(), []input.Command{
			addVehicle("vehicle1", "north", "south"),
			step(),
			c.command,
			step(),
		})
		require.NoError(t, err, c.name)

		out, err := ctx.Run()
		assert.ErrorIs(t, err, c.target, c.name)
		assert.Equal(t, [][]string{{"vehicle1"}}, vehiclesLeft(out), "%s: earlier steps are kept", c.name)
		assert.Equal(t, 1, ctx.Status().Entered, c.name)
	}
}

func TestInteractiveContext(t *testing.T) {
	ctx, err := task.NewInteractiveContext(config.Default())
	require.NoError(t, err)

	_, err = ctx.Step()
	assert.ErrorIs(t, err, task.ErrMissingStartRoad)
	assert.ErrorIs(t, ctx.AddVehicle("vehicle1", "", "south"), task.ErrMissingStartRoad)
	assert.False(t, ctx.Status().Initialized)

	require.NoError(t, ctx.AddVehicle("vehicle1", "west", "east"))
	require.NoError(t, ctx.AddVehicle("vehicle2", "west", "north"))
	assert.ErrorIs(t, ctx.AddVehicle("vehicle3", "", "south"), entity.ErrInvalidDirection)

	s := ctx.Status()
	assert.True(t, s.Initialized)
	assert.Equal(t, 2, s.Queued)
	assert.Equal(t, junction.PhaseEnteringGreen, s.Junction.Phase)

	// 单车道：直行车辆先通过，下一步左转车辆进入缓冲区，对向无冲突时同一步通过
	ids, err := ctx.Step()
	require.NoError(t, err)
	assert.Equal(t, []string{"vehicle1"}, ids)
	ids, err = ctx.Step()
	require.NoError(t, err)
	assert.Equal(t, []string{"vehicle2"}, ids)
	assert.Equal(t, 2, ctx.Status().Crossed)
	assert.Len(t, ctx.Output().StepStatuses, 2)
}

func TestGeneratedLoadConservation(t *testing.T) {
	for _, lanes := range []int{1, 2, 4} {
		c := config.Default()
		c.NumberOfLanes = lanes
		commands := input.Generate(c.Control, 7, 60)

		ctx, err := task.NewContext(c, commands)
		require.NoError(t, err)
		out, err := ctx.Run()
		require.NoError(t, err)

		crossed := lo.Flatten(vehiclesLeft(out))
		assert.Len(t, lo.Uniq(crossed), len(crossed), "no vehicle crosses twice")

		s := ctx.Status()
		assert.Equal(t, 60, s.Entered)
		assert.Equal(t, len(crossed), s.Crossed)
		assert.Equal(t, s.Entered, s.Crossed+s.Queued, "lanes=%d", lanes)
	}
}
