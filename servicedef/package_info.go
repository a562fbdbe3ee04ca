// Package servicedef contains the data formats and constants shared between the test suite and
// the springmvc provider: wire types, invocation-context headers, and fallback messages.
package servicedef
