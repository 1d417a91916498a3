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

package verdict

//go:generate go tool stringer -type Verdict

// Verdict is the classification of an acquisition site.
type Verdict uint8

const (
	// Safe means the resource is released on every path or its obligation leaves the function.
	Safe Verdict = iota
	// Leaked means some path may drop the resource without releasing it.
	Leaked
)
