// Package catalog compiles every finder method of a set of repositories
// in one run.
//
// Each method is compiled independently. A method that fails yields a
// Diagnostic and never prevents the others from producing a Plan; a panic
// inside the compiler is recovered as an E299 diagnostic. Names that no
// strategy accepts are reported as E200 warnings, since a repository may
// declare methods that are not finders at all.
package catalog
