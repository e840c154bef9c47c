package scanner

import "github.com/dshills/uloc/pkg/types"

// Aggregate builds a Report from counted records. The total line count is
// the sum over records; globalUnique is counted separately over the
// combined content of all records.
func Aggregate(records []*types.FileRecord, globalUnique int) types.Report {
	report := types.Report{
		Files: make([]types.FileStats, 0, len(records)),
	}

	for _, rec := range records {
		report.Files = append(report.Files, rec.Stats())
		report.Total.LineCount += rec.LineCount
	}
	report.Total.UniqueLineCount = globalUnique

	return report
}
