package input

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

// Command 仿真命令
// 功能：添加车辆命令携带车辆ID与起止方位，步进命令只有类型
// 说明：方位保持原始字符串，在命令被处理时才解析，使错误出现在对应命令上
type Command struct {
	Type      string `json:"type" yaml:"type" bson:"type"`
	VehicleID string `json:"vehicleId,omitempty" yaml:"vehicleId,omitempty" bson:"vehicleId,omitempty"`
	StartRoad string `json:"startRoad,omitempty" yaml:"startRoad,omitempty" bson:"startRoad,omitempty"`
	EndRoad   string `json:"endRoad,omitempty" yaml:"endRoad,omitempty" bson:"endRoad,omitempty"`
}

// Input 命令文件的根结构
type Input struct {
	Commands []Command `json:"commands" yaml:"commands"`
}

// Format 命令文件格式
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatOf 根据文件扩展名判断格式，.yaml/.yml为YAML，其余按JSON处理
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse 解析命令序列
// 参数：data-文件内容，format-文件格式
// 返回：命令序列；格式错误或存在未知字段时返回错误
func Parse(data []byte, format Format) ([]Command, error) {
	var in Input
	switch format {
	case FormatYAML:
		if err := yaml.UnmarshalStrict(data, &in); err != nil {
			return nil, fmt.Errorf("parse yaml commands: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			return nil, fmt.Errorf("parse json commands: %w", err)
		}
	}
	return in.Commands, nil
}

// LoadFile 从文件读取命令序列
// 参数：path-文件路径，格式由扩展名决定
// 返回：命令序列和错误信息
func LoadFile(path string) ([]Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input file %q: %w", path, err)
	}
	commands, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("input file %q: %w", path, err)
	}
	log.Infof("load %d commands from %s", len(commands), path)
	return commands, nil
}
