// Package cli provides the sdbackup command tree.
//
// The root command carries the flags shared by every subcommand (config
// file, log file, verbosity). `run` performs a full backup, `plan` prints
// what a run would do, and `verify` and `fix-cmdline` repeat a single step
// against an existing backup disk. Use `Run` as the entry point when
// embedding the CLI in other tools.
//
// Example usage:
//
//	if err := cli.Run(os.Args); err != nil {
//	    fmt.Fprintf(os.Stderr, "Error: %v\n", err)
//	    os.Exit(1)
//	}
package cli
