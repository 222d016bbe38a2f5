/**
# Copyright 2024 NVIDIA CORPORATION
#
# Licensed under the Apache License, Version 2.0 (the "License");
# you may not use this file except in compliance with the License.
# You may obtain a copy of the License at
#
#     http://www.apache.org/licenses/LICENSE-2.0
#
# Unless required by applicable law or agreed to in writing, software
# distributed under the License is distributed on an "AS IS" BASIS,
# WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
# See the License for the specific language governing permissions and
# limitations under the License.
**/

package nvapi

import "fmt"

// enumValues holds the known values of a driver enum. Values outside the
// table are reported as errors instead of being coerced.
type enumValues[E ~int32] struct {
	typeName string
	names    map[E]string
}

func (e enumValues[E]) fromRaw(v int32) (E, error) {
	if _, ok := e.names[E(v)]; !ok {
		return E(v), &UnrecognizedValueError{Type: e.typeName, Value: v}
	}
	return E(v), nil
}

func (e enumValues[E]) name(v E) string {
	if n, ok := e.names[v]; ok {
		return n
	}
	return fmt.Sprintf("%s(%d)", e.typeName, int32(v))
}

func (e enumValues[E]) valid(v E) bool {
	_, ok := e.names[v]
	return ok
}
