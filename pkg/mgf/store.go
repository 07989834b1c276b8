package mgf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Store indexes the raw text of MGF records by identifier.
type Store struct {
	format       Format
	records      map[string]string
	order        []string
	unidentified []string
}

// ParseStore scans r and keeps every record's verbatim text keyed by the value
// of the format's identifier header. When the header appears more than once in
// a record the last value wins; duplicate identifiers across records also keep
// the last record. Records without an identifier header are kept aside and
// logged, never filed under another record's identifier.
func ParseStore(r io.Reader, format Format, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		format:  format,
		records: make(map[string]string),
	}

	key := format.Key()
	br := bufio.NewReader(r)

	var (
		buf      strings.Builder
		id       string
		hasID    bool
		open     bool
		lineNum  int
		openLine int
	)

	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lineNum++

			if strings.HasPrefix(line, BeginMarker) {
				if open {
					return nil, &ParseError{Line: openLine, Err: ErrUnterminatedRecord}
				}
				open = true
				openLine = lineNum
				buf.Reset()
				id, hasID = "", false
			}

			if open {
				if strings.HasPrefix(line, key) {
					parts := strings.Split(strings.TrimSpace(line), "=")
					id = parts[len(parts)-1]
					hasID = true
				}
				buf.WriteString(line)

				if strings.HasPrefix(line, EndMarker) {
					s.add(id, hasID, buf.String(), openLine, logger)
					open = false
				}
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read mgf: %w", err)
		}
	}

	if open {
		return nil, &ParseError{Line: openLine, Err: ErrUnterminatedRecord}
	}

	return s, nil
}

func (s *Store) add(id string, hasID bool, text string, line int, logger *slog.Logger) {
	if !hasID {
		s.unidentified = append(s.unidentified, text)
		logger.Warn("mgf record has no identifier, skipping",
			"line", line, "key", s.format.Key())
		return
	}
	if _, exists := s.records[id]; !exists {
		s.order = append(s.order, id)
	} else {
		logger.Debug("duplicate mgf identifier, keeping last record", "id", id, "line", line)
	}
	s.records[id] = text
}

// Get returns the record text stored under id.
func (s *Store) Get(id string) (string, bool) {
	text, ok := s.records[id]
	return text, ok
}

// Len returns the number of identified records.
func (s *Store) Len() int {
	return len(s.records)
}

// IDs returns the identifiers in the order they first appeared in the file.
func (s *Store) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Unidentified returns the text of records that had no identifier header.
func (s *Store) Unidentified() []string {
	return s.unidentified
}

// Extract concatenates the records for ids in request order. Unknown ids are
// skipped, so the result is always a valid multi-record MGF document.
func (s *Store) Extract(ids []string) string {
	var b strings.Builder
	for _, id := range ids {
		if text, ok := s.records[id]; ok {
			b.WriteString(text)
		}
	}
	return b.String()
}

// ReadIdentifierList reads newline-delimited identifiers. Order and duplicates
// are preserved; blank lines come back as empty identifiers.
func ReadIdentifierList(r io.Reader) ([]string, error) {
	var ids []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		ids = append(ids, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading identifier list: %w", err)
	}
	return ids, nil
}
