// Package main provides the pbixconv command-line interface.
//
// pbixconv converts Power BI report packages (.pbix) so that table and
// matrix visuals are replaced by the Inforiver custom visual. A conversion
// extracts the package into a private workspace, removes the
// SecurityBindings member, rewrites the Report/Layout document, and packs
// a new deterministic archive. The input is never modified.
//
// Subcommands:
//   - inspect: list members and report what a conversion would change
//   - version: print build metadata
package main
