/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package udaf

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rulego/udaf/functions"
	"github.com/rulego/udaf/logger"
	"github.com/rulego/udaf/types"
)

// Option 表示对编译器默认行为的修改配置。
type Option func(*Compiler)

// WithLogger 设置自定义日志记录器。
//
// 示例:
//
//	customLogger := logger.NewLogger(logger.DEBUG, os.Stderr)
//	c, err := udaf.New(udaf.WithLogger(customLogger))
func WithLogger(log logger.Logger) Option {
	return func(c *Compiler) {
		if log != nil {
			c.logger = log
		}
	}
}

// WithLogLevel 设置日志级别，优先于配置中的 logLevel。
//
// 示例:
//
//	c, err := udaf.New(udaf.WithLogLevel(logger.DEBUG))
func WithLogLevel(level logger.Level) Option {
	return func(c *Compiler) {
		c.level = &level
	}
}

// WithLogOutput 设置日志输出目标。
//
// 示例:
//
//	logFile, _ := os.OpenFile("udaf.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
//	c, err := udaf.New(udaf.WithLogOutput(logFile, logger.INFO))
func WithLogOutput(output io.Writer, level logger.Level) Option {
	return func(c *Compiler) {
		c.logger = logger.NewLogger(level, output)
		c.level = &level
	}
}

// WithDiscardLog 禁用所有日志输出。
func WithDiscardLog() Option {
	return func(c *Compiler) {
		c.logger = logger.NewDiscardLogger()
	}
}

// WithMetadataService 设置已有函数的元数据服务。
// 未设置时，若配置了 CatalogPath 则从目录文件加载。
func WithMetadataService(svc functions.MetadataService) Option {
	return func(c *Compiler) {
		c.meta = svc
	}
}

// WithRegisterer 设置指标注册器。未设置时指标不会注册到任何注册表。
//
// 示例:
//
//	c, err := udaf.New(udaf.WithRegisterer(prometheus.DefaultRegisterer))
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Compiler) {
		c.registerer = reg
	}
}

// WithConfig 设置编译器配置。
//
// 示例:
//
//	config, err := types.LoadConfig(file)
//	c, err := udaf.New(udaf.WithConfig(config))
func WithConfig(config types.Config) Option {
	return func(c *Compiler) {
		c.config = config
	}
}

// WithCodegenConfig 仅设置生成代码相关配置。
func WithCodegenConfig(config types.CodegenConfig) Option {
	return func(c *Compiler) {
		c.config.CodegenConfig = config
	}
}
