package usecase

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ErlanBelekov/learning-management-system/internal/domain"
)

const hiredDateLayout = "2006-01-02"

var requiredCandidateColumns = []string{"first_name", "email", "hired_date"}

// parseCandidates reads a header-driven CSV. Column order is free and
// unknown columns are ignored. Row numbers in errors count the header as
// row 1.
func parseCandidates(r io.Reader) ([]*domain.HiredCandidate, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.ErrInvalidCandidateFile.WithMessage("file is empty")
		}
		return nil, domain.ErrInvalidCandidateFile.WithCause(err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, name := range requiredCandidateColumns {
		if _, ok := col[name]; !ok {
			return nil, domain.ErrInvalidCandidateFile.WithMessage("missing column " + name)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var out []*domain.HiredCandidate
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.ErrInvalidCandidateFile.WithMessage(fmt.Sprintf("row %d", row)).WithCause(err)
		}

		c, err := candidateFromFields(SaveCandidateInput{
			FirstName:    field(rec, "first_name"),
			LastName:     field(rec, "last_name"),
			Email:        field(rec, "email"),
			MobileNumber: field(rec, "mobile_number"),
			Degree:       field(rec, "degree"),
			HiredCity:    field(rec, "hired_city"),
			HiredDate:    field(rec, "hired_date"),
			Status:       field(rec, "status"),
		})
		if err != nil {
			return nil, domain.ErrInvalidCandidateFile.WithMessage(fmt.Sprintf("row %d: %s", row, err.Error()))
		}
		out = append(out, c)
	}
	return out, nil
}

func parseHiredDate(s string) (time.Time, error) {
	t, err := time.Parse(hiredDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, domain.ErrInvalidCandidate.WithMessage("hired_date must be YYYY-MM-DD")
	}
	return t, nil
}
