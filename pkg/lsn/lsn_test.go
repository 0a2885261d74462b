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

package lsn

import "testing"

func TestAlign(t *testing.T) {
	cases := []struct {
		in   Lsn
		want Lsn
	}{
		{0, 0},
		{1, 0},
		{7, 0},
		{8, 8},
		{9, 8},
		{0x16B9188, 0x16B9188},
		{0x16B918F, 0x16B9188},
	}
	for _, c := range cases {
		if got := c.in.Align(); got != c.want {
			t.Errorf("Align(%#x) = %#x, want %#x", uint64(c.in), uint64(got), uint64(c.want))
		}
	}
}

func TestString(t *testing.T) {
	cases := []struct {
		in   Lsn
		want string
	}{
		{0, "0/0"},
		{0x16B9188, "0/16B9188"},
		{0x2_0000_0000, "2/0"},
		{0x12345678_9ABCDEF0, "12345678/9ABCDEF0"},
	}
	for _, c := range cases {
		if got := c.in.String(); got != c.want {
			t.Errorf("String(%#x) = %q, want %q", uint64(c.in), got, c.want)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, l := range []Lsn{0, 0x16B9188, 0x2_0000_0000, 0x12345678_9ABCDEF0} {
		got, err := Parse(l.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", l.String(), err)
		}
		if got != l {
			t.Errorf("Parse(%q) = %#x, want %#x", l.String(), uint64(got), uint64(l))
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "0", "zz/0", "0/1FFFFFFFF"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", s)
		}
	}
}
