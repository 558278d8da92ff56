// Package cmd provides the command-line interface for pbixconv.
//
// The root command converts a package: it takes INPUT and an optional
// OUTPUT and delegates to the converter package. Two subcommands sit
// beside it:
//   - inspect: dry run listing members and the layout changes a conversion makes
//   - version: build metadata
//
// Commands use Cobra for structure and are styled by Fang in main. Logging
// goes to stderr through zap; --verbose enables debug output.
package cmd
