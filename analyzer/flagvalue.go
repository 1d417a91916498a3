// Copyright 2025-2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"fmt"
	"strconv"
	"strings"

	"fillmore-labs.com/closeguard/internal/config"
)

// NewBehaviorValue creates a boolean [flag.Value] toggling flag in b.
func NewBehaviorValue(b *config.Behavior, flag config.Flag) *boolValue[config.Flag, *config.Behavior] {
	return &boolValue[config.Flag, *config.Behavior]{flags: b, value: flag}
}

type boolValue[F any, B boolFlag[F]] struct {
	flags B
	value F
}

type boolFlag[F any] interface {
	comparable
	Set(flag F, value bool)
	Enabled(flag F) bool
}

// Set implements [flag.Value].
func (f boolValue[_, B]) Set(s string) error {
	b, err := parseBool(s)
	if err != nil {
		return err
	}

	f.flags.Set(f.value, b)

	return nil
}

// String implements [flag.Value].
func (f boolValue[_, B]) String() string {
	var null B
	if f.flags == null {
		return "false"
	}

	return strconv.FormatBool(f.flags.Enabled(f.value))
}

// Get implements [flag.Getter].
func (f boolValue[_, B]) Get() any {
	var null B
	if f.flags == null {
		return false
	}

	return f.flags.Enabled(f.value)
}

// IsBoolFlag returns true to indicate that this is a boolean [flag.Value].
func (f boolValue[_, _]) IsBoolFlag() bool { return true }

// parseBool returns the boolean value represented by the string.
func parseBool(str string) (bool, error) {
	switch str {
	case "1", "t", "T", "true", "TRUE", "True", "on", "On":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False", "off", "Off":
		return false, nil
	}

	return false, &strconv.NumError{Func: "ParseBool", Num: str, Err: strconv.ErrSyntax}
}

// listValue is a [flag.Value] appending comma separated, parsed elements to a slice.
type listValue[T any] struct {
	list  *[]T
	parse func(string) (T, error)
}

func newListValue[T any](list *[]T, parse func(string) (T, error)) listValue[T] {
	return listValue[T]{list: list, parse: parse}
}

// Set implements [flag.Value].
func (l listValue[T]) Set(s string) error {
	for elem := range strings.SplitSeq(s, ",") {
		if elem = strings.TrimSpace(elem); elem == "" {
			continue
		}

		v, err := l.parse(elem)
		if err != nil {
			return err
		}

		*l.list = append(*l.list, v)
	}

	return nil
}

// String implements [flag.Value].
func (l listValue[T]) String() string {
	if l.list == nil {
		return ""
	}

	elems := make([]string, 0, len(*l.list))
	for _, v := range *l.list {
		elems = append(elems, fmt.Sprint(v))
	}

	return strings.Join(elems, ",")
}
