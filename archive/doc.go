// Package archive reads and writes the ZIP containers used by Power BI packages.
//
// Extraction is total: every member lands in the staging directory at its
// mirrored path with its exact bytes. Packing is the inverse, with every
// piece of per-entry metadata pinned by a WriterConfig so that identical
// staging contents always produce byte-identical archives.
package archive
