// Package report renders scan outcomes: a terminal summary and the results
// file in text, CSV or JSON format.
package report
