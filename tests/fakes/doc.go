// Package fakes provides test doubles for the bbenv store interface.
//
// The fake variable store has a working in-memory implementation that
// records every write, allowing engine tests to assert on reconciliation
// decisions without a real Bitbucket API. Fakes are manually implemented
// (not generated) to provide precise control over test behavior.
package fakes
