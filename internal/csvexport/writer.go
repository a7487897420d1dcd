package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"patentdesk/internal/domain"
	"patentdesk/internal/wizard"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Application No",
	"Status",
	"Stage",
	"Title",
	"Application Type",
	"Classification",
	"Applicant Name",
	"Applicant National ID",
	"Applicant Country",
	"Inventor Name",
	"Entitlement Rate",
	"Priority Claimed",
	"Priority Application No",
	"Likelihood Rate",
	"Payment Amount",
	"Payment Reference",
	"Paid At",
	"Reviewed At",
	"Decision Note",
	"Rejection Category",
	"Created At",
}

// Writer wraps csv.Writer for exporting applications as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteApplications converts a batch of applications to CSV rows and writes them.
func (w *Writer) WriteApplications(apps []domain.Application) error {
	for i := range apps {
		if err := w.csv.Write(applicationToRow(&apps[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// applicationToRow flattens an application. Form-derived columns are left
// empty when the stage that collects them has not been committed.
func applicationToRow(app *domain.Application) []string {
	form := app.Form()
	row := make([]string, len(columns))

	row[0] = app.ApplicationNo
	row[1] = string(app.Status)
	row[2] = strconv.Itoa(app.CurrentStage)
	row[3] = app.Title
	row[4] = app.ApplicationTypeID
	row[5] = app.ClassificationID
	row[6] = joinName(form.String(wizard.FieldFirstName), form.String(wizard.FieldLastName))
	row[7] = form.String(wizard.FieldNationalID)
	row[8] = form.String(wizard.FieldCountryID)
	row[9] = joinName(form.String(wizard.FieldInventorFirstName), form.String(wizard.FieldInventorLastName))
	row[10] = form.String(wizard.FieldEntitlementRate)
	if app.CurrentStage >= 5 {
		row[11] = formatBool(form.Bool(wizard.FieldHasPriority))
	}
	row[12] = form.String(wizard.FieldPriorityNo)
	if app.LikelihoodRate != nil {
		row[13] = strconv.FormatFloat(*app.LikelihoodRate, 'f', 2, 64)
	}
	if app.PaymentAmount != nil {
		row[14] = formatMoney(*app.PaymentAmount)
	}
	row[15] = app.PaymentReference
	row[16] = formatTime(app.PaidAt)
	row[17] = formatTime(app.ReviewedAt)
	row[18] = app.DecisionNote
	row[19] = app.RejectionCategoryID
	row[20] = app.CreatedAt.Format(time.RFC3339)

	return row
}

func joinName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

// formatMoney renders an amount held in minor units.
func formatMoney(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a label for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: applications_{label}_{YYYY-MM-DD}.csv
func BuildFilename(label string) string {
	if label == "" {
		label = "all"
	}
	sanitized := SanitizeFilename("applications_" + label)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.csv", sanitized, date)
}
