// Package export writes research reports to spreadsheet workbooks for
// sharing outside the CLI.
package export

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/redscout/redscout-cli/internal/model"
)

// WriteXLSX writes a report as a workbook with one overview sheet, one
// clusters sheet, and one solutions sheet.
func WriteXLSX(report *model.Report, path string) error {
	f, err := buildWorkbook(report)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save workbook %s", path)
	}
	return nil
}

func buildWorkbook(report *model.Report) (*xlsx.File, error) {
	f := xlsx.NewFile()

	if err := addOverviewSheet(f, report); err != nil {
		return nil, err
	}
	if err := addClustersSheet(f, report); err != nil {
		return nil, err
	}
	if err := addSolutionsSheet(f, report); err != nil {
		return nil, err
	}
	return f, nil
}

func addOverviewSheet(f *xlsx.File, report *model.Report) error {
	sheet, err := f.AddSheet("Overview")
	if err != nil {
		return eris.Wrap(err, "export: add overview sheet")
	}

	rows := [][]string{
		{"Audience", report.ParsedQuery.TargetAudience},
		{"Intent", string(report.ParsedQuery.Intent)},
		{"Time window", string(report.ParsedQuery.TimeWindow)},
		{"Discussions analyzed", fmt.Sprintf("%d", report.TotalResultsAnalyzed)},
		{"Problem clusters", fmt.Sprintf("%d", len(report.Clusters))},
		{"Overall confidence", fmt.Sprintf("%.2f", report.OverallConfidence)},
		{"Processing time (ms)", fmt.Sprintf("%d", report.ProcessingTimeMs)},
		{"Summary", report.Summary},
	}
	writeRows(sheet, rows)

	writeRows(sheet, [][]string{nil, {"Top problems"}})
	for _, p := range report.Insights.TopProblems {
		writeRows(sheet, [][]string{{"", p}})
	}
	writeRows(sheet, [][]string{nil, {"Recommendations"}})
	for _, r := range report.Insights.ActionableRecommendations {
		writeRows(sheet, [][]string{{"", r}})
	}
	return nil
}

func addClustersSheet(f *xlsx.File, report *model.Report) error {
	sheet, err := f.AddSheet("Clusters")
	if err != nil {
		return eris.Wrap(err, "export: add clusters sheet")
	}

	writeRows(sheet, [][]string{{
		"Title", "Category", "Threads", "Severity", "Trend",
		"Opportunity", "Market size", "Avg score", "Total comments", "Top keywords",
	}})
	for _, c := range report.Clusters {
		writeRows(sheet, [][]string{{
			c.Title,
			c.Centroid.Category,
			fmt.Sprintf("%d", c.ThreadCount),
			fmt.Sprintf("%.2f", c.Severity),
			string(c.Trend),
			fmt.Sprintf("%.2f", c.OpportunityScore),
			string(c.MarketSize),
			fmt.Sprintf("%.1f", c.AvgScore),
			fmt.Sprintf("%d", c.TotalComments),
			strings.Join(c.TopKeywords, ", "),
		}})
	}
	return nil
}

func addSolutionsSheet(f *xlsx.File, report *model.Report) error {
	sheet, err := f.AddSheet("Solutions")
	if err != nil {
		return eris.Wrap(err, "export: add solutions sheet")
	}

	writeRows(sheet, [][]string{{
		"Cluster", "Solution", "Category", "Rating", "Reviews", "Pricing", "Website",
	}})
	for _, c := range report.Clusters {
		for _, s := range c.Solutions {
			writeRows(sheet, [][]string{{
				c.Title,
				s.Name,
				s.Category,
				fmt.Sprintf("%.1f", s.Rating),
				fmt.Sprintf("%d", s.ReviewCount),
				s.Pricing,
				s.WebsiteURL,
			}})
		}
	}
	return nil
}

func writeRows(sheet *xlsx.Sheet, rows [][]string) {
	for _, cells := range rows {
		row := sheet.AddRow()
		for _, c := range cells {
			row.AddCell().SetString(c)
		}
	}
}
