package cli_test

import (
	"fmt"

	"github.com/woliveiras/sdbackup/pkg/cli"
)

func ExampleNewStdUI() {
	ui := cli.NewStdUI()
	// The returned UI implements the expected interface; print a short value
	// to demonstrate construction. Avoid interacting with stdin in examples.
	fmt.Printf("%T\n", ui)
	// Output: *cli.stdUI
}

func ExampleRun_help() {
	// Calling Run with an empty args slice returns a deterministic error.
	var args []string
	if err := cli.Run(args); err != nil {
		fmt.Println("error:", err)
	}
	// Output: error: no arguments provided
}

func ExampleRun_version() {
	// The version command needs no configuration and no privileges.
	if err := cli.Run([]string{"sdbackup", "version"}); err != nil {
		fmt.Println("error:", err)
	}
	// Output: sdbackup dev
}

func ExampleRun_tooManyTargets() {
	// A run backs up to exactly one disk; extra targets are rejected before
	// the configuration is read.
	err := cli.Run([]string{"sdbackup", "plan", "sda1", "sdb"})
	fmt.Println("error:", err)
	// Output: error: accepts at most 1 arg(s), received 2
}
