package audit

import (
	"bytes"
	"encoding/csv"
	"time"
)

// WriteCSV renders rows as a CSV document with a header line.
func WriteCSV(rows []TimelineRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Thời gian", "Người thực hiện", "Thao tác", "Đối tượng", "Mã"}); err != nil {
		return nil, err
	}
	for _, r := range rows {
		record := []string{r.At.Format(time.RFC3339), r.Actor, r.ActionLabel, r.Entity, r.EntityID}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
