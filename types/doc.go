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
Package types provides the data types, compile errors and configuration
shared by every udaf package.

# Data Types

DataType is a closed set: the numeric scalars int, long, float and double,
their arrays, boolean, String and LocalDate. Numeric arrays are exposed to
generated code as IVector.

	t, err := types.ParseDataType("java.lang.Double") // types.Double
	wide, ok := types.Promote(types.Int, types.Float) // types.Float, true
	types.Double.Accepts(types.Long)                 // true

Widening follows int < long < float < double, element-wise for arrays.

# Compile Errors

Every failure caused by the expression as authored is a *CompileError.
Match a category with errors.Is against the sentinels:

	if errors.Is(err, types.ErrNoMatchingSignature) {
		// no overload accepts the argument types
	}

Categories: UNSUPPORTED_COMBINATION, NO_MATCHING_SIGNATURE,
UNSUPPORTED_OUTPUT_TYPE, AMBIGUOUS_TERNARY_TYPES and METADATA_TRANSPORT.
Only the last one wraps a cause.

# Configuration

Config is read from YAML; fields left out keep their defaults:

	logLevel: debug
	catalogPath: catalog.yaml
	codegen:
	  factParameter: fact
	  factType: IArrayReader
	  bufferType: IWritableBuffer
	  methodNameSeparator: "_"
*/
package types
