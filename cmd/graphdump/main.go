// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// The graphdump command prints the structure of an encoded object graph as
// JSON, without needing the type descriptors that wrote it.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/GameFoundry/bsf-sub024/core/log"
)

var (
	indent  = flag.Bool("indent", true, "Indent the JSON output")
	maxData = flag.Int("max-data", 16, "Bytes of each value to print in hex, -1 for all")
	verbose = flag.Bool("v", false, "Log debug messages to stderr")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: graphdump [flags] <file>|-\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := zap.NewDevelopmentConfig()
	if !*verbose {
		cfg.Level.SetLevel(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	ctx := log.Put(context.Background(), logger)

	err = run(ctx, flag.Args(), os.Stdin, os.Stdout)
	if err != nil {
		log.E(ctx, "%v", err)
	}
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) != 1 {
		flag.Usage()
		return errors.Errorf("expected one input, got %d", len(args))
	}
	var data []byte
	var err error
	if args[0] == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return errors.Wrapf(err, "reading %s", args[0])
	}
	ctx = log.V{"input": args[0], "bytes": len(data)}.Bind(ctx)
	out, err := dump(data, *maxData, *indent)
	if err != nil {
		return err
	}
	log.D(ctx, "Dumped stream")
	_, err = stdout.Write(append(out, '\n'))
	return err
}
