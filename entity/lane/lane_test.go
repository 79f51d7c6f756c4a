package lane_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/intersection-sim/entity"
	"github.com/tsinghua-fib-lab/intersection-sim/entity/junction/trafficlight"
	"github.com/tsinghua-fib-lab/intersection-sim/entity/lane"
)

func newNorthLane(traffic, arrow trafficlight.State) *lane.Lane {
	return lane.New("north-0", entity.North, trafficlight.New(traffic), trafficlight.New(arrow))
}

func TestLaneImplementsInterface(t *testing.T) {
	var l entity.ILane = newNorthLane(trafficlight.Red, trafficlight.Off)
	assert.Equal(t, "north-0", l.ID())
}

func TestAddVehicle(t *testing.T) {
	l := newNorthLane(trafficlight.Red, trafficlight.Off)
	l.AddVehicle(&entity.Vehicle{ID: "V1", Destination: entity.East})

	assert.Equal(t, 1, l.VehicleCount())
	assert.Equal(t, "V1", l.FrontVehicle().ID)
}

func TestLightNextState(t *testing.T) {
	l := newNorthLane(trafficlight.Red, trafficlight.Off)

	l.TrafficLightNextState()
	assert.Equal(t, trafficlight.Green, l.TrafficLight().State())
	assert.Equal(t, trafficlight.Off, l.RightArrowLight().State())

	l.RightArrowLightNextState()
	assert.Equal(t, trafficlight.On, l.RightArrowLight().State())
}

func TestRightArrowLightMissing(t *testing.T) {
	l := lane.New("north-0", entity.North, trafficlight.New(trafficlight.Green), nil)
	l.AddVehicle(&entity.Vehicle{ID: "V1", Destination: entity.West})

	assert.NotPanics(t, l.RightArrowLightNextState)
	assert.Nil(t, l.MoveVehicle(&entity.LeftTurnBuffer{}, true))
}

func TestNextVehicleTurnsLeft(t *testing.T) {
	l := newNorthLane(trafficlight.Red, trafficlight.Off)
	assert.True(t, l.NextVehicleTurnsLeft(), "empty lane")

	l.AddVehicle(&entity.Vehicle{ID: "V1", Destination: entity.East})
	assert.True(t, l.NextVehicleTurnsLeft())

	other := newNorthLane(trafficlight.Red, trafficlight.Off)
	other.AddVehicle(&entity.Vehicle{ID: "V1", Destination: entity.West})
	assert.False(t, other.NextVehicleTurnsLeft())
}

func TestMoveVehicleEmpty(t *testing.T) {
	l := newNorthLane(trafficlight.Green, trafficlight.On)
	buffer := &entity.LeftTurnBuffer{}

	assert.Nil(t, l.MoveVehicle(buffer, false))
	assert.True(t, buffer.Empty())
}

func TestMoveVehicleStraightOnGreen(t *testing.T) {
	l := newNorthLane(trafficlight.Green, trafficlight.Off)
	v := &entity.Vehicle{ID: "V1", Destination: entity.South}
	l.AddVehicle(v)

	buffer := &entity.LeftTurnBuffer{}
	moved := l.MoveVehicle(buffer, false)
	assert.Equal(t, 1, l.VehicleCount(), "removal is deferred")
	l.RemoveVehicles()

	assert.Equal(t, v, moved)
	assert.Equal(t, 0, l.VehicleCount())
	assert.True(t, buffer.Empty())
}

func TestMoveVehicleLeftIntoBuffer(t *testing.T) {
	l := newNorthLane(trafficlight.Green, trafficlight.Off)
	v := &entity.Vehicle{ID: "V1", Destination: entity.East}
	l.AddVehicle(v)

	buffer := &entity.LeftTurnBuffer{}
	moved := l.MoveVehicle(buffer, false)
	l.RemoveVehicles()

	assert.Nil(t, moved, "a left turner waits in the buffer")
	assert.Equal(t, v, buffer.Peek())
	assert.Equal(t, 0, l.VehicleCount())
}

func TestMoveVehicleLeftBlockedByFullBuffer(t *testing.T) {
	l := newNorthLane(trafficlight.Green, trafficlight.Off)
	l.AddVehicle(&entity.Vehicle{ID: "V2", Destination: entity.East})

	buffer := &entity.LeftTurnBuffer{}
	held := &entity.Vehicle{ID: "V1", Destination: entity.East}
	buffer.Put(held)

	assert.Nil(t, l.MoveVehicle(buffer, false))
	l.RemoveVehicles()
	assert.Equal(t, 1, l.VehicleCount())
	assert.Equal(t, held, buffer.Peek())
}

func TestMoveVehicleBlockedOnYellow(t *testing.T) {
	l := newNorthLane(trafficlight.Yellow, trafficlight.Off)
	l.AddVehicle(&entity.Vehicle{ID: "V1", Destination: entity.South})

	assert.Nil(t, l.MoveVehicle(&entity.LeftTurnBuffer{}, false))
	assert.Equal(t, 1, l.VehicleCount())
}

func TestMoveVehicleRightArrow(t *testing.T) {
	// 箭头灯放行只服务右转车辆
	l := newNorthLane(trafficlight.Red, trafficlight.On)
	l.AddVehicle(&entity.Vehicle{ID: "V1", Destination: entity.South})
	assert.Nil(t, l.MoveVehicle(&entity.LeftTurnBuffer{}, true))

	l = newNorthLane(trafficlight.Red, trafficlight.Off)
	l.AddVehicle(&entity.Vehicle{ID: "V1", Destination: entity.West})
	assert.Nil(t, l.MoveVehicle(&entity.LeftTurnBuffer{}, true), "arrow is off")

	l = newNorthLane(trafficlight.Red, trafficlight.On)
	v := &entity.Vehicle{ID: "V1", Destination: entity.West}
	l.AddVehicle(v)
	assert.Equal(t, v, l.MoveVehicle(&entity.LeftTurnBuffer{}, true))
}

func TestRemoveVehicles(t *testing.T) {
	// 红灯不阻止放行：车道只有在被激活后才会被调用MoveVehicle
	l := newNorthLane(trafficlight.Red, trafficlight.Off)
	v1 := &entity.Vehicle{ID: "V1", Destination: entity.South}
	v2 := &entity.Vehicle{ID: "V2", Destination: entity.South}
	l.AddVehicle(v1)
	l.AddVehicle(v2)

	buffer := &entity.LeftTurnBuffer{}
	assert.Equal(t, v1, l.MoveVehicle(buffer, false))
	// 同一步内再次尝试仍看到相同的队首车辆，只会被移除一次
	assert.Equal(t, v1, l.MoveVehicle(buffer, false))
	l.RemoveVehicles()

	assert.Equal(t, 1, l.VehicleCount())
	assert.Equal(t, []*entity.Vehicle{v2}, l.Vehicles())
}
