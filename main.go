// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/envresolve/cmd/envresolve"

func main() {
	cmd.Execute()
}
