// Package runlog keeps an append-only CSV history of pipeline runs, one
// row per run, next to the generated reports. Rows are never rewritten;
// the log is the audit trail of when each ledger generation happened and
// what went into it.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one pipeline run.
type Entry struct {
	Timestamp    time.Time
	InputFiles   int
	Transactions int
	Overridden   int
	CommitHash   string
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,input_files,transactions,overridden,commit_hash"

const (
	numFields = 5
	logFile   = "run-log.csv"

	colTimestamp    = 0
	colInputFiles   = 1
	colTransactions = 2
	colOverridden   = 3
	colCommitHash   = 4
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colInputFiles] = strconv.Itoa(e.InputFiles)
	row[colTransactions] = strconv.Itoa(e.Transactions)
	row[colOverridden] = strconv.Itoa(e.Overridden)
	row[colCommitHash] = e.CommitHash
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	inputFiles, err := strconv.Atoi(record[colInputFiles])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing input_files %q: %w", record[colInputFiles], err)
	}
	transactions, err := strconv.Atoi(record[colTransactions])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing transactions %q: %w", record[colTransactions], err)
	}
	overridden, err := strconv.Atoi(record[colOverridden])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing overridden %q: %w", record[colOverridden], err)
	}

	return Entry{
		Timestamp:    ts,
		InputFiles:   inputFiles,
		Transactions: transactions,
		Overridden:   overridden,
		CommitHash:   record[colCommitHash],
	}, nil
}

// Append writes an entry to <outputDir>/run-log.csv, creating the file
// and header if needed.
func Append(outputDir string, e Entry) error {
	path := filepath.Join(outputDir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := cw.Write(MarshalEntry(e)); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}
	return cw.Error()
}

// Read returns all entries from <outputDir>/run-log.csv. Returns nil if
// the file does not exist.
func Read(outputDir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(outputDir, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
