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
Package aggregator generates the lifecycle routines of incremental aggregations.

An aggregation kind is described by a Visitor. Given a lowered element, the
visitor declares the buffer layout and emits four routines:

  - contribute folds one fact row into aggregationBuffer
  - decontribute removes a row again; absent for kinds that cannot undo (min, max)
  - merge folds inputAggregationBuffer into outputAggregationBuffer
  - terminate reads the final value out of aggregationBuffer

# Built-in Kinds

	mean        sum and count, scalar or vector
	min, max    scalar only, no decontribute
	multiply    scalar only
	short       sum of negative parts, scalar or vector
	square_sum  scalar only
	sum         scalar or vector

Kinds without a template for the element type fail with
UNSUPPORTED_OUTPUT_TYPE.

# Distillation

Distill lowers an expression and collects everything into an Artifact:

	art, err := aggregator.Distill(ctx, expr.Mul(5, expr.Col("price")), aggregator.Mean, &aggregator.Env{
		Schema: map[string]types.DataType{"price": types.Double},
	})
	fmt.Print(art.Source())

# Custom Kinds

	aggregator.Register("first", func() aggregator.Visitor { return &firstVisitor{} })

A registered kind takes precedence over a built-in kind of the same name.
*/
package aggregator
