// Package report renders processed meetings as XLSX workbooks.
package report
