/*
 * Austro - Interactive debugger CLI.
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

// austrodbg loads an Austro program and drives it through an interactive,
// liner-backed step/run/show console (see command/parser and
// command/reader).
package main

import (
	"fmt"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/austrosim/austro/command/reader"
	"github.com/austrosim/austro/command/session"
	"github.com/austrosim/austro/util/logger"
)

func main() {
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optTrace := getopt.BoolLong("trace", 't', "Trace every fetch from startup")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		var err error
		file, err = os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "austrodbg:", err)
			os.Exit(1)
		}
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	debug := false
	log := slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel}, &debug))
	slog.SetDefault(log)

	sess := session.New(log)
	sess.Trace.SetEnabled(*optTrace)

	args := getopt.Args()
	if len(args) > 0 {
		src, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "austrodbg:", err)
			os.Exit(1)
		}
		if err := sess.LoadSource(string(src)); err != nil {
			fmt.Fprintln(os.Stderr, "austrodbg:", err)
			os.Exit(1)
		}
	}

	reader.ConsoleReader(sess)
}
