package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abhishek622/intellihire/pkg"
	"github.com/abhishek622/intellihire/pkg/model"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet      = "Summary"
	applicationsSheet = "Applications"
)

var applicationHeaders = []string{
	"Candidate", "Email", "Education", "Skills", "Status", "Current Round", "Rounds Passed", "Applied At", "Last Feedback",
}

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FileName is the download name for a job's applications workbook.
func FileName(job *model.JobOpening, at time.Time) string {
	return fmt.Sprintf("%s-applications-%s.xlsx", pkg.GenerateSlug(job.Title), at.Format("20060102"))
}

// WriteApplications writes a workbook with a summary sheet for the job and
// one row per application.
func WriteApplications(w io.Writer, job *model.JobOpening, apps []model.ApplicationDetail, generated time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(applicationsSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writeSummary(f, headerStyle, job, apps, generated); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeApplications(f, headerStyle, apps); err != nil {
		return fmt.Errorf("applications sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, headerStyle int, job *model.JobOpening, apps []model.ApplicationDetail, generated time.Time) error {
	counts := make(map[model.ApplicationStatus]int, len(model.ApplicationStatuses))
	for _, a := range apps {
		counts[a.Status]++
	}

	rows := [][]interface{}{
		{"Job Title", job.Title},
		{"Status", string(job.Status)},
		{"Rounds", len(job.Rounds)},
		{"Generated", generated.Format("2006-01-02 15:04:05")},
		{"Total Applications", len(apps)},
		{},
	}
	for _, s := range model.ApplicationStatuses {
		rows = append(rows, []interface{}{string(s), counts[s]})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "A5", headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "A", "B", 24)
}

func writeApplications(f *excelize.File, headerStyle int, apps []model.ApplicationDetail) error {
	if err := f.SetSheetRow(applicationsSheet, "A1", &applicationHeaders); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(applicationHeaders), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(applicationsSheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, a := range apps {
		var name, email, education, skills string
		if c := a.Candidate; c != nil {
			name, email, education = c.FullName, c.Email, c.Education
			skills = strings.Join(c.Skills, ", ")
		}
		passed := 0
		feedback := ""
		for _, h := range a.History {
			if h.Result == model.RoundOutcomeSuccess {
				passed++
			}
			feedback = h.Feedback
		}

		row := []interface{}{
			name, email, education, skills, string(a.Status), a.CurrentRound, passed,
			a.CreatedAt.Format("2006-01-02"), feedback,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(applicationsSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(applicationsSheet, "A", "H", 18); err != nil {
		return err
	}
	return f.SetColWidth(applicationsSheet, "I", "I", 50)
}
