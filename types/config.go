package types

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Config 编译器配置
type Config struct {
	// 生成代码相关配置
	CodegenConfig CodegenConfig `json:"codegenConfig" yaml:"codegen"`
	// 元数据目录文件，为空时使用运行时提供的元数据服务
	CatalogPath string `json:"catalogPath" yaml:"catalogPath"`
	// 日志级别: debug, info, warn, error, off
	LogLevel string `json:"logLevel" yaml:"logLevel"`
}

// CodegenConfig controls the shape of generated routines.
type CodegenConfig struct {
	FactParameter       string   `json:"factParameter" yaml:"factParameter"`             // fact reader parameter name
	FactType            string   `json:"factType" yaml:"factType"`                       // fact reader type
	BufferType          string   `json:"bufferType" yaml:"bufferType"`                   // aggregation buffer type
	DefaultImports      []string `json:"defaultImports" yaml:"defaultImports"`           // imports every artifact needs
	MethodNameSeparator string   `json:"methodNameSeparator" yaml:"methodNameSeparator"` // between a custom function name and its token
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return Config{
		CodegenConfig: DefaultCodegenConfig(),
		LogLevel:      "info",
	}
}

// DefaultCodegenConfig returns the engine's standard routine conventions.
func DefaultCodegenConfig() CodegenConfig {
	return CodegenConfig{
		FactParameter: "fact",
		FactType:      "IArrayReader",
		BufferType:    "IWritableBuffer",
		DefaultImports: []string{
			"com.qfs.store.record.IArrayReader",
			"com.qfs.store.record.IWritableBuffer",
			"com.qfs.vector.IVector",
		},
		MethodNameSeparator: "_",
	}
}

// LoadConfig reads a YAML configuration, filling unset fields with defaults.
func LoadConfig(r io.Reader) (Config, error) {
	config := NewConfig()
	if err := yaml.NewDecoder(r).Decode(&config); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	defaults := DefaultCodegenConfig()
	if config.CodegenConfig.FactParameter == "" {
		config.CodegenConfig.FactParameter = defaults.FactParameter
	}
	if config.CodegenConfig.FactType == "" {
		config.CodegenConfig.FactType = defaults.FactType
	}
	if config.CodegenConfig.BufferType == "" {
		config.CodegenConfig.BufferType = defaults.BufferType
	}
	if config.CodegenConfig.MethodNameSeparator == "" {
		config.CodegenConfig.MethodNameSeparator = defaults.MethodNameSeparator
	}
	return config, nil
}
