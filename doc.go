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

/*
Package udaf 将算术/条件表达式编译为增量聚合引擎可执行的聚合例程。

An expression over table columns and literals is lowered to typed code and
expanded, per aggregation kind, into the four routines an incremental
columnar engine calls: contribute, decontribute, merge and terminate. The
routines share a fixed buffer layout declared with the artifact.

# 核心特性

• 不可变表达式树 - 运算符构造、列去重、条件与函数调用
• 类型化降级 - 标量与向量的内置运算符表，分支类型提升
• 函数注册 - 自定义函数与引擎已有函数，按签名匹配，元数据缓存
• 聚合访问器 - mean, min, max, multiply, short, square_sum, sum
• 例程模拟 - 在内存缓冲区上执行生成的例程，验证可逆性与结合律

# 入门示例

	c, err := udaf.New(udaf.WithLogLevel(logger.WARN))
	if err != nil {
		panic(err)
	}

	schema := map[string]types.DataType{
		"price": types.Double,
		"qty":   types.Int,
	}

	// 5 * price
	node := expr.Mul(5, expr.Col("price"))
	art, err := c.Distill(context.Background(), node, aggregator.Mean, schema)
	if err != nil {
		panic(err)
	}
	fmt.Print(art.Source())

Expressions can also be parsed from text; function names are looked up in
the compiler's registry:

	clip, _ := c.Registry().NewCustomFunction("clip", "return Math.max(0.0, x);",
		types.Double, nil, functions.Signature{functions.P("x", types.Double)})
	art, err = c.Compile(ctx, "clip(price - 10) * qty", aggregator.Sum, schema)

# 已有函数

Existing engine methods are resolved through a functions.MetadataService,
usually a bridge to the engine. Offline, a YAML catalog serves the same
answers:

	config := types.NewConfig()
	config.CatalogPath = "catalog.yaml"
	c, err := udaf.New(udaf.WithConfig(config))

# 指标

With WithRegisterer the compiler exports udaf_distillations_total (by kind
and outcome), udaf_distillation_duration_seconds and the metadata cache
hit and miss counters.
*/
package udaf
