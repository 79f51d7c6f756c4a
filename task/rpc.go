package task

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"connectrpc.com/connect"
	"git.fiblab.net/sim/syncer/v3"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/intersection-sim/entity"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/config"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// IntersectionServiceName 路口仿真RPC服务名
	IntersectionServiceName = "intersection.v1.IntersectionService"

	AddVehicleProcedure = "/" + IntersectionServiceName + "/AddVehicle"
	StepProcedure       = "/" + IntersectionServiceName + "/Step"
	StatusProcedure     = "/" + IntersectionServiceName + "/Status"
)

// Service 交互式路口仿真RPC服务
// 功能：通过AddVehicle/Step/Status接口驱动一个Context
// 说明：仿真核心是单线程的，所有调用由互斥锁串行化
type Service struct {
	mtx sync.Mutex
	ctx *Context
}

// NewService 基于Context创建RPC服务
func NewService(ctx *Context) *Service {
	return &Service{ctx: ctx}
}

// Handler 构造服务的HTTP处理器
// 返回：路由前缀与处理器，与connect生成代码的New*Handler保持一致
func (s *Service) Handler(opts ...connect.HandlerOption) (pattern string, handler http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(AddVehicleProcedure, connect.NewUnaryHandler(AddVehicleProcedure, s.AddVehicle, opts...))
	mux.Handle(StepProcedure, connect.NewUnaryHandler(StepProcedure, s.Step, opts...))
	mux.Handle(StatusProcedure, connect.NewUnaryHandler(StatusProcedure, s.Status, opts...))
	return "/" + IntersectionServiceName + "/", mux
}

// Register 将路口仿真服务注册到sidecar
// 说明：服务不参与syncer的步进同步，由自身的互斥锁保护
func (s *Service) Register(sidecar *syncer.Sidecar) {
	sidecar.Register(IntersectionServiceName, s.Handler, syncer.WithNoLock())
}

// Context 服务驱动的仿真任务
func (s *Service) Context() *Context {
	return s.ctx
}

// AddVehicle RPC接口：添加车辆
// 参数：in-包含vehicleId、startRoad、endRoad字段的Struct
func (s *Service) AddVehicle(
	ctx context.Context, in *connect.Request[structpb.Struct],
) (*connect.Response[emptypb.Empty], error) {
	fields := in.Msg.GetFields()
	s.mtx.Lock()
	defer s.mtx.Unlock()
	err := s.ctx.AddVehicle(
		fields["vehicleId"].GetStringValue(),
		fields["startRoad"].GetStringValue(),
		fields["endRoad"].GetStringValue(),
	)
	if err != nil {
		return nil, connect.NewError(codeOf(err), err)
	}
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// Step RPC接口：执行一步
// 返回：{"vehiclesLeft": [...]}
func (s *Service) Step(
	ctx context.Context, in *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	s.mtx.Lock()
	ids, err := s.ctx.Step()
	s.mtx.Unlock()
	if err != nil {
		return nil, connect.NewError(codeOf(err), err)
	}
	res, err := structpb.NewStruct(map[string]any{
		"vehiclesLeft": lo.Map(ids, func(id string, _ int) any { return id }),
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(res), nil
}

// Status RPC接口：获取仿真状态
func (s *Service) Status(
	ctx context.Context, in *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	s.mtx.Lock()
	status := s.ctx.Status()
	s.mtx.Unlock()
	res, err := structpb.NewStruct(map[string]any{
		"step":          status.Step,
		"initialized":   status.Initialized,
		"entered":       status.Entered,
		"crossed":       status.Crossed,
		"queued":        status.Queued,
		"phase":         status.Junction.Phase.String(),
		"roadIndex":     status.Junction.RoadIndex,
		"strategyIndex": status.Junction.StrategyIndex,
		"timer":         status.Junction.Timer,
		"extended":      status.Junction.Extended,
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(res), nil
}

// codeOf 将仿真错误映射为RPC错误码
func codeOf(err error) connect.Code {
	switch {
	case errors.Is(err, ErrMissingStartRoad):
		return connect.CodeFailedPrecondition
	case errors.Is(err, entity.ErrInvalidDirection),
		errors.Is(err, entity.ErrInvalidDestination),
		errors.Is(err, ErrMissingVehicleID),
		errors.Is(err, ErrMissingEndRoad),
		errors.Is(err, config.ErrInvalidConfig):
		return connect.CodeInvalidArgument
	default:
		return connect.CodeInternal
	}
}
