// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/keranjangkita/keranjang/cmd/keranjang"

func main() {
	cmd.Execute()
}
