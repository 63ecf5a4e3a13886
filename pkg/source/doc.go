// Package source reads the segments to lay out.
//
// Supported inputs, chosen by file extension:
//   - FASTA (.fa, .fasta, .fna, .faa), optionally compressed as .gz or .lz4.
//     Sequences are kept so they can be drawn.
//   - BAM and SAM (.bam, .sam). Only the reference dictionary in the header
//     is read, giving names and lengths without sequence.
//   - TOML segment lists (.toml), for laying out assemblies whose sequence
//     is not at hand:
//
//	[[segment]]
//	name = "chr1"
//	length = 248956422
//
// The result of every reader is a slice of [Contig]. [Segments] converts it
// to the allocator's input.
package source
