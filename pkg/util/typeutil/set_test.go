// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package typeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	set := NewSet(3, 1, 2)
	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Contain(1, 2))
	assert.False(t, set.Contain(1, 4))

	assert.False(t, set.TryInsert(1))
	assert.True(t, set.TryInsert(4))
	assert.Equal(t, []int{1, 2, 3, 4}, Sorted(set))

	set.Remove(4, 5)
	assert.Equal(t, []int{1, 2, 3}, Sorted(set))
}

func TestSetOperations(t *testing.T) {
	a := NewSet("apple", "pear", "plum")
	b := NewSet("pear", "fig")

	assert.Equal(t, []string{"pear"}, Sorted(a.Intersection(b)))
	assert.Equal(t, []string{"apple", "plum"}, Sorted(a.Complement(b)))
	assert.True(t, a.Equal(a.Clone()))
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(a.Complement(nil)))

	var empty Set[string]
	assert.Equal(t, 0, empty.Len())
	assert.Empty(t, Sorted(empty))
	assert.True(t, empty.Equal(NewSet[string]()))
}
