package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/issuekit/issuekit/pkg/errclass"
	"github.com/issuekit/issuekit/pkg/model"
)

// VerifyResult summarizes a hash chain check.
type VerifyResult struct {
	Records  int    `json:"records"`
	Valid    bool   `json:"valid"`
	BrokenAt int    `json:"broken_at,omitempty"` // 1-based line number
	Error    string `json:"error,omitempty"`
}

// ReadAll returns every record of the log at path, oldest first. A missing
// log has no records.
func ReadAll(path string) ([]*model.AuditRecord, error) {
	var records []*model.AuditRecord
	err := scan(path, func(_ int, line []byte) error {
		var r model.AuditRecord
		if err := json.Unmarshal(line, &r); err != nil {
			return err
		}
		records = append(records, &r)
		return nil
	})
	return records, err
}

// Verify walks the log at path and checks that every record links to its
// predecessor and hashes to its RecordHash. On the first broken record it
// returns the result together with an errclass.ErrAuditChainBroken error.
func Verify(path string) (*VerifyResult, error) {
	result := &VerifyResult{Valid: true}
	var prev model.HashValue

	brokenAt := func(n int, format string, args ...any) error {
		result.Valid = false
		result.BrokenAt = n
		result.Error = fmt.Sprintf(format, args...)
		return errclass.ErrAuditChainBroken.WithMessagef("line %d: %s", n, result.Error)
	}

	err := scan(path, func(n int, line []byte) error {
		var r model.AuditRecord
		if err := json.Unmarshal(line, &r); err != nil {
			return brokenAt(n, "malformed record: %v", err)
		}
		if r.PrevHash != prev {
			return brokenAt(n, "prev_hash %q does not match previous record %q", r.PrevHash, prev)
		}
		hash, err := computeRecordHash(&r)
		if err != nil {
			return err
		}
		if hash != r.RecordHash {
			return brokenAt(n, "record_hash mismatch")
		}
		prev = r.RecordHash
		result.Records++
		return nil
	})
	return result, err
}

func scan(path string, fn func(n int, line []byte) error) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open audit log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	n := 0
	for scanner.Scan() {
		n++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		if err := fn(n, scanner.Bytes()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan audit log: %w", err)
	}
	return nil
}
