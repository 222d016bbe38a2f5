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

type refcount int

// IncOnNoError increments the count if err is nil.
func (r *refcount) IncOnNoError(err error) {
	if err == nil {
		(*r)++
	}
}

// DecOnNoError decrements the count if err is nil. It never goes below 0.
func (r *refcount) DecOnNoError(err error) {
	if err == nil && (*r) > 0 {
		(*r)--
	}
}
