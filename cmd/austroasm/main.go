/*
 * Austro - Assembler CLI.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// austroasm assembles an Austro two-operand source file and prints the
// resulting word stream and label table.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	getopt "github.com/pborman/getopt/v2"

	"github.com/austrosim/austro/emu/assembler"
)

func main() {
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	args := getopt.Args()
	var src []byte
	var err error
	if len(args) == 0 {
		src, err = io.ReadAll(os.Stdin)
	} else {
		src, err = os.ReadFile(args[0])
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "austroasm:", err)
		os.Exit(1)
	}

	res, err := assembler.Assemble(string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, "austroasm:", err)
		os.Exit(1)
	}

	for i, w := range res.Words {
		fmt.Printf("%4d: %#04x\n", i, w.Value)
	}

	if len(res.Labels) == 0 {
		return
	}
	names := make([]string, 0, len(res.Labels))
	for name := range res.Labels {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("labels:")
	for _, name := range names {
		fmt.Printf("  %s = %d\n", name, res.Labels[name])
	}
}
