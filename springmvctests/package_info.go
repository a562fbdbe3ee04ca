// Package springmvctests contains the springmvc contract tests themselves and their supporting API.
//
// Test harness infrastructure that is not specific to the provider under test, such as the test
// context, result collection, and the REST client, is in the lower-level framework and cse
// packages.
package springmvctests
