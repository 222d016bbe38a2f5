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

import (
	"errors"
	"fmt"

	"github.com/avast/retry-go/v4"
	"k8s.io/klog/v2"
)

// MaxEnumerateAttempts bounds how often an enumeration is restarted when
// the driver reports more entries than were allocated.
const MaxEnumerateAttempts = 3

var errEnumerationGrew = errors.New("enumeration grew between count and fill")

// CountFunc asks the driver for the number of entries without a buffer.
type CountFunc func(count *uint32) Status

// FillFunc fills buf and updates count to the number of entries written.
type FillFunc[T any] func(buf []T, count *uint32) Status

// Enumerate runs the count-then-fill protocol. Every element is passed to
// tag before the fill call so that its version field is set. The result is
// truncated to the count the driver returned from the fill call. A zero
// count yields an empty slice and no error.
func Enumerate[T any](count CountFunc, fill FillFunc[T], tag func(*T)) ([]T, error) {
	return withEnumerationRetry(func() ([]T, error) {
		var n uint32
		if ret := count(&n); ret != OK {
			return nil, ret
		}
		if n == 0 {
			return []T{}, nil
		}

		buf := make([]T, n)
		if tag != nil {
			for i := range buf {
				tag(&buf[i])
			}
		}

		got := n
		ret := fill(buf, &got)
		if ret == INSUFFICIENT_BUFFER || (ret == OK && got > n) {
			klog.V(4).Infof("enumeration grew from %d to %d entries", n, got)
			return nil, errEnumerationGrew
		}
		if ret != OK {
			return nil, ret
		}
		return buf[:got], nil
	})
}

// CountFunc2 asks for the sizes of two arrays that are filled by one call.
type CountFunc2 func(countA *uint32, countB *uint32) Status

// FillFunc2 fills two arrays in one call.
type FillFunc2[A, B any] func(a []A, countA *uint32, b []B, countB *uint32) Status

type pair[A, B any] struct {
	a []A
	b []B
}

// Enumerate2 is Enumerate for entry points that return two arrays, such as
// the GPUs and displays of a sync topology. An array with a zero count is
// passed to the fill call as a nil buffer.
func Enumerate2[A, B any](count CountFunc2, fill FillFunc2[A, B], tagA func(*A), tagB func(*B)) ([]A, []B, error) {
	p, err := withEnumerationRetry(func() (pair[A, B], error) {
		var na, nb uint32
		if ret := count(&na, &nb); ret != OK {
			return pair[A, B]{}, ret
		}
		if na == 0 && nb == 0 {
			return pair[A, B]{a: []A{}, b: []B{}}, nil
		}

		var a []A
		var b []B
		if na > 0 {
			a = make([]A, na)
			for i := range a {
				tagA(&a[i])
			}
		}
		if nb > 0 {
			b = make([]B, nb)
			for i := range b {
				tagB(&b[i])
			}
		}

		gotA, gotB := na, nb
		ret := fill(a, &gotA, b, &gotB)
		if ret == INSUFFICIENT_BUFFER || (ret == OK && (gotA > na || gotB > nb)) {
			klog.V(4).Infof("enumeration grew from (%d, %d) to (%d, %d) entries", na, nb, gotA, gotB)
			return pair[A, B]{}, errEnumerationGrew
		}
		if ret != OK {
			return pair[A, B]{}, ret
		}
		if a == nil {
			a = []A{}
		}
		if b == nil {
			b = []B{}
		}
		return pair[A, B]{a: a[:gotA], b: b[:gotB]}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return p.a, p.b, nil
}

func withEnumerationRetry[T any](attempt func() (T, error)) (T, error) {
	result, err := retry.DoWithData(
		attempt,
		retry.Attempts(MaxEnumerateAttempts),
		retry.RetryIf(func(err error) bool { return errors.Is(err, errEnumerationGrew) }),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if errors.Is(err, errEnumerationGrew) {
		return result, fmt.Errorf("%w: gave up after %d attempts", ErrTopologyChanged, MaxEnumerateAttempts)
	}
	return result, err
}

// EnumerateIndexed calls get with index 0, 1, ... until the driver reports
// END_ENUMERATION. It stops after limit entries.
func EnumerateIndexed[T any](limit int, get func(index uint32, out *T) Status) ([]T, error) {
	items := []T{}
	for i := 0; i < limit; i++ {
		var v T
		ret := get(uint32(i), &v)
		switch {
		case ret == END_ENUMERATION:
			return items, nil
		case ret == NVIDIA_DEVICE_NOT_FOUND && i == 0:
			return items, nil
		case ret != OK:
			return nil, ret
		}
		items = append(items, v)
	}
	return items, nil
}
