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
Package functions resolves calls to native routines in generated code.

Two kinds of functions exist:

	TypeCustom   - the caller supplies a method body and one or more signatures
	TypeExisting - a static method the engine already knows, e.g. Math.abs

# Signature Matching

A call resolves to the first signature, in declaration order, whose
parameter count equals the argument count and whose parameters each accept
the argument type. Acceptance follows a fixed widening table: an int
argument satisfies a double parameter, a double argument never satisfies an
int parameter, and numeric arrays widen the same way element-wise.

# Custom Functions

	reg := functions.NewRegistry(nil)
	clamp, _ := reg.NewCustomFunction("clamp", "return Math.max(0.0, x);", types.Double, nil,
		functions.Signature{functions.P("x", types.Double)})

Every signature actually used by a distillation is declared once, under a
method name made of the function name and a registry-unique token. The
declarations and imports are collected by the distillation's Accumulator.

# Existing Functions

Signatures and output types of existing functions come from a
MetadataService and are memoized in the registry's MetadataCache. A Catalog
loaded from YAML is a static MetadataService.
*/
package functions
