package roster

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Role is the coarse classification of a roster row.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleStaff   Role = "staff"
)

// ClassifyRole maps a raw role field onto the member classification.
// Matching is case-insensitive; anything that is neither a student nor a
// supervisor counts as staff.
func ClassifyRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "student":
		return RoleStudent
	case "supervisor":
		return RoleFaculty
	default:
		return RoleStaff
	}
}

// Member is one parsed roster row.
type Member struct {
	UniqueID   string `json:"unique_id"`
	Name       string `json:"name,omitempty"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
	Branch     string `json:"branch,omitempty"`
	Year       *int   `json:"year,omitempty"`
	Semester   *int   `json:"semester,omitempty"`
	Section    string `json:"section,omitempty"`
}

// Positional roster columns. Trailing columns are optional.
const (
	colUniqueID = iota
	colName
	colRole
	colDepartment
	colBranch
	colYear
	colSemester
	colSection
)

// minFields is the number of leading columns a row needs to be usable.
const minFields = colDepartment + 1

// ParseMembers parses a delimited roster payload into member rows. The first
// line is a header and is discarded. Rows missing a unique ID, role or
// department are skipped, as are rows with too few fields or non-numeric
// year/semester values; a malformed row never fails the whole parse.
func ParseMembers(data []byte) ([]Member, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	members := []Member{}
	header := true
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if _, ok := err.(*csv.ParseError); ok {
				continue
			}
			return nil, fmt.Errorf("failed to read roster: %w", err)
		}
		if header {
			header = false
			continue
		}

		m, ok := parseRecord(record)
		if !ok {
			continue
		}
		members = append(members, m)
	}
	return members, nil
}

func parseRecord(record []string) (Member, bool) {
	if len(record) < minFields {
		return Member{}, false
	}

	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	m := Member{
		UniqueID:   field(colUniqueID),
		Name:       field(colName),
		Department: field(colDepartment),
		Branch:     field(colBranch),
		Section:    field(colSection),
	}

	role := field(colRole)
	if m.UniqueID == "" || role == "" || m.Department == "" {
		return Member{}, false
	}
	m.Role = ClassifyRole(role)

	var ok bool
	if m.Year, ok = parseOptionalInt(field(colYear)); !ok {
		return Member{}, false
	}
	if m.Semester, ok = parseOptionalInt(field(colSemester)); !ok {
		return Member{}, false
	}
	return m, true
}

func parseOptionalInt(raw string) (*int, bool) {
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &n, true
}

// CountRecords counts the non-blank data rows of a delimited payload,
// excluding the header line. Used by the typed ingestion mode, which stores a
// flat count without building the tree.
func CountRecords(data []byte) int {
	count := 0
	for i, line := range strings.Split(string(data), "\n") {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}
		count++
	}
	return count
}
