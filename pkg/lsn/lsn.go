/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package lsn provides the write-ahead log position type shared by the
// import and routing layers.
package lsn

import "fmt"

// WAL records start on 8-byte boundaries.
const recordAlignment = 8

// Lsn is a byte offset into the write-ahead log stream, marking a
// durable recovery point.
type Lsn uint64

// Invalid is the zero position; no valid WAL record lives there.
const Invalid Lsn = 0

// Align rounds l down to the nearest WAL record boundary.
func (l Lsn) Align() Lsn {
	return l &^ (recordAlignment - 1)
}

// String formats l in the Postgres "X/Y" form: the high and low 32 bits
// as uppercase hex, separated by a slash.
func (l Lsn) String() string {
	return fmt.Sprintf("%X/%X", uint64(l)>>32, uint64(l)&0xFFFFFFFF)
}

// Parse decodes the "X/Y" form produced by String.
func Parse(s string) (Lsn, error) {
	var hi, lo uint64
	if n, err := fmt.Sscanf(s, "%X/%X", &hi, &lo); err != nil || n != 2 {
		return Invalid, fmt.Errorf("lsn: parse %q: expected X/Y hex form", s)
	}
	if hi > 0xFFFFFFFF || lo > 0xFFFFFFFF {
		return Invalid, fmt.Errorf("lsn: parse %q: component out of range", s)
	}
	return Lsn(hi<<32 | lo), nil
}
