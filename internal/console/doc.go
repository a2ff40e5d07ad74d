// Package console runs the external application console (bin/console by
// default) on behalf of the command-mode converter and importer and the
// demo-details command.
//
// Command lines come from configuration and are split on whitespace. Output is
// streamed line by line from both stdout and stderr.
package console
