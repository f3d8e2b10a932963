// Package report renders analysis results for the terminal and for export.
package report
