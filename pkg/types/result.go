// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Result records the outcome of processing one input file. Exactly one of
// {Output+Archive set, Err set} holds: successful results carry the derived
// output and archive base names and an empty Err; failed results carry a
// one-line reason and empty Output/Archive.
type Result struct {
	// Filename is the base name of the original input file.
	Filename string `json:"filename" yaml:"filename"`

	// Output is the base name of the converted file in output/.
	// Empty when the conversion failed.
	Output string `json:"output" yaml:"output"`

	// Archive is the base name the original was archived under.
	// Empty when the conversion failed.
	Archive string `json:"archive" yaml:"archive"`

	// Success reports whether conversion and archival both completed.
	Success bool `json:"success" yaml:"success"`

	// Seconds is the elapsed processing time, never negative.
	Seconds float64 `json:"time" yaml:"time"`

	// Err is the failure reason; empty iff Success.
	Err string `json:"error" yaml:"error"`
}
