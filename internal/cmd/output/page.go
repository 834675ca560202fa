package output

import (
	"fmt"
	"io"

	"github.com/ruoyi-fastapi/ruoyi-go/pkg/api"
)

// Page writes one list page. Table formats show the rows with a paging
// footer; JSON and YAML print the page document as received.
func Page[T any](w io.Writer, format Format, columns []string, page *api.Page[T]) error {
	if !format.IsTable() {
		return NewFormatter(format).Format(w, page)
	}

	table := &TableFormatter{Wide: format == FormatWide, Columns: columns}
	data := table.convertToTableData(page.Rows)
	if data == nil {
		data = &Data{}
	}
	data.Footer = pageFooter(page.Total, len(page.Rows), page.PageNum, page.HasNext)
	return table.Format(w, data)
}

// Value writes a single value, typically one record or an action result.
func Value(w io.Writer, format Format, columns []string, v any) error {
	return NewFormatter(format, columns...).Format(w, v)
}

func pageFooter(total int64, shown, pageNum int, hasNext bool) string {
	footer := fmt.Sprintf("%d of %d", shown, total)
	if pageNum > 0 {
		footer += fmt.Sprintf(" (page %d)", pageNum)
	}
	if hasNext {
		footer += ", more available"
	}
	return footer
}
