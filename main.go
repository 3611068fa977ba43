// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/instgroup/instgroup/cmd/instgroup"

func main() {
	cmd.Execute()
}
