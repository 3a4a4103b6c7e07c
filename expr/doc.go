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
Package expr builds the expression trees that are compiled into aggregation routines.

A tree is made of five node kinds: Column, Constant, BinaryOp (with its
comparison form Condition), Ternary and Call. Nodes are immutable once built
and every node reports the distinct columns it reads, in first-occurrence
order. That order fixes the index of each column in the fact record.

# Building Trees

Operator helpers accept nodes or Go literals on either side:

	price := expr.Col("price")
	node := expr.Mul(5, price)            // (5 * price)
	cond := expr.Gt(expr.Col("qty"), 10)  // (qty > 10)
	t, _ := expr.NewTernary(cond, node, 0)

Binary returns ok=false instead of panicking when an operand cannot be
combined, such as a Measure. Measures live beside expressions: combining two
table measures, or a table measure with a literal, fails with an
UNSUPPORTED_COMBINATION error.

# Textual Form

Parse accepts a small SQL-like dialect:

	price * quantity - discount
	IF(quantity > 10, price * 0.9, price)
	CASE WHEN delta < 0 THEN delta ELSE 0 END
	Math.abs(delta)

Function names are resolved through a caller supplied lookup, typically
a functions.Registry.
*/
package expr
