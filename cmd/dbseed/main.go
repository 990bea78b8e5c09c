/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Command dbseed prepares a fresh database server for the product store.
//
// Usage:
//
//	dbseed [--config dbseed.yaml] [--env-file .env] [--log-level debug]
//
// Connection settings come from the config file and DB_* environment
// variables; the environment wins.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"github.com/tomoncle/dbseed"
	"github.com/tomoncle/dbseed/bootstrap"
	"github.com/tomoncle/dbseed/database"
	"github.com/tomoncle/dbseed/utils"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("dbseed", flag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "path to a YAML config file")
	envFile := fs.String("env-file", "", "dotenv file loaded before reading DB_* variables")
	logLevel := fs.String("log-level", "", "log level (trace, debug, info, warn, error); defaults to LOG_LEVEL")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: dbseed [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			return fail(fmt.Errorf("failed to load env file %s: %w", *envFile, err))
		}
	}
	// dotenv may have set LOG_LEVEL or CONSOLE_LOG_FORMAT
	if *logLevel == "" {
		*logLevel = utils.EnvDefaultString("LOG_LEVEL", "info")
	}
	utils.ConfigureLogLevel(*logLevel)
	utils.ConfigureConsoleLogFormat(utils.EnvDefaultString("CONSOLE_LOG_FORMAT", "text"))

	cfg, err := database.LoadConfig(*configPath)
	if err != nil {
		return fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dbseed.Run(ctx, cfg, os.Stdout); err != nil {
		return fail(err)
	}
	return 0
}

func fail(err error) int {
	red := color.New(color.FgRed, color.Bold)
	msg := err.Error()
	if is, kind := database.Classify(err); is {
		msg = fmt.Sprintf("%s (%s)", msg, kind)
	}
	var stepErr *bootstrap.StepError
	if errors.As(err, &stepErr) {
		_, _ = red.Fprintf(os.Stderr, "Bootstrap failed at %s: %s\n", stepErr.Step, msg)
	} else {
		_, _ = red.Fprintf(os.Stderr, "Bootstrap failed: %s\n", msg)
	}
	return 1
}
