// Copyright 2021 Torben Schinke
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package preprocessor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalConstantExpressionArithmeticPrecedence(t *testing.T) {
	v, truthy, err := EvalConstantExpression("1 + 2 * 3")
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)
	assert.True(t, truthy)
}

func TestEvalConstantExpressionComparison(t *testing.T) {
	v, truthy, err := EvalConstantExpression("3 > 2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	assert.True(t, truthy)
}

func TestEvalConstantExpressionTernary(t *testing.T) {
	v, _, err := EvalConstantExpression("1 ? 10 : 20")
	require.NoError(t, err)
	assert.Equal(t, int64(10), v)

	v, _, err = EvalConstantExpression("0 ? 10 : 20")
	require.NoError(t, err)
	assert.Equal(t, int64(20), v)
}

func TestEvalConstantExpressionLogicalShortCircuitStillParsesRest(t *testing.T) {
	v, truthy, err := EvalConstantExpression("1 || 1 / 0")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	assert.True(t, truthy)
}

func TestEvalConstantExpressionHexAndOctal(t *testing.T) {
	v, _, err := EvalConstantExpression("0x10")
	require.NoError(t, err)
	assert.Equal(t, int64(16), v)

	v, _, err = EvalConstantExpression("010")
	require.NoError(t, err)
	assert.Equal(t, int64(8), v)
}

func TestEvalConstantExpressionUndefinedIdentIsZero(t *testing.T) {
	v, truthy, err := EvalConstantExpression("UNKNOWN_MACRO")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)
	assert.False(t, truthy)
}

func TestEvalConstantExpressionDivisionByZero(t *testing.T) {
	_, _, err := EvalConstantExpression("1 / 0")
	assert.Error(t, err)
}

func TestEvalConstantExpressionBitwiseAndShift(t *testing.T) {
	v, _, err := EvalConstantExpression("(1 << 4) | 1")
	require.NoError(t, err)
	assert.Equal(t, int64(17), v)
}

func TestEvalConstantExpressionMalformedIsError(t *testing.T) {
	_, _, err := EvalConstantExpression("1 + ")
	assert.Error(t, err)
}
