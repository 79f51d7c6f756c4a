package output

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// StepStatus 一次步进的结果
type StepStatus struct {
	VehiclesLeft []string `json:"vehiclesLeft" bson:"vehiclesLeft"` // 按通过顺序排列的车辆ID
}

// Output 一次仿真的全部步进结果
type Output struct {
	StepStatuses []StepStatus `json:"stepStatuses"`
}

// New 创建空的结果
func New() *Output {
	return &Output{StepStatuses: make([]StepStatus, 0)}
}

// Append 追加一步的结果
func (o *Output) Append(vehiclesLeft []string) {
	if vehiclesLeft == nil {
		vehiclesLeft = make([]string, 0)
	}
	o.StepStatuses = append(o.StepStatuses, StepStatus{VehiclesLeft: vehiclesLeft})
}

// Writer 步进结果的写出目标
type Writer interface {
	Write(ctx context.Context, o *Output) error
}

// FileWriter 将结果以JSON写入文件
type FileWriter struct {
	Path string
}

// Write 写入文件，文件已存在时覆盖
func (w FileWriter) Write(_ context.Context, o *Output) error {
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	if err := os.WriteFile(w.Path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write output file %q: %w", w.Path, err)
	}
	log.Infof("write %d step statuses to %s", len(o.StepStatuses), w.Path)
	return nil
}
