// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package indent provides indentation generation methods.
package indent

import "strings"

// Spaces returns a string of n*width spaces.
func Spaces(n, width int) string {
	return strings.Repeat(" ", n*width)
}
