package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/record"
	"github.com/trezcool/gradebook/core/report"
	exportsvc "github.com/trezcool/gradebook/services/export"
)

const allResultsName = "all_results"

// writeExport writes `tables` to `<dir>/<name><ext>` and returns the file's path.
func (cli *commandLine) writeExport(format, dir, name string, tables ...core.Table) (string, error) {
	exp, err := exportsvc.ForFormat(format)
	if err != nil {
		return "", err
	}
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating output directory")
	}

	path := filepath.Join(dir, name+exp.Extension())
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "creating export file")
	}
	if err = exp.Export(f, tables...); err != nil {
		_ = f.Close()
		return "", err
	}
	if err = f.Close(); err != nil {
		return "", errors.Wrap(err, "closing export file")
	}
	_, _ = fmt.Fprintf(cli.out, "written %s\n", path)
	return path, nil
}

func (cli *commandLine) report(roll, format, outDir string) error {
	ctx := context.Background()
	std, err := cli.recordSvc.GetStudentByRoll(ctx, roll)
	if err != nil {
		return cli.suggest(ctx, err, roll, "")
	}
	rep, ok, err := cli.engine.Compute(ctx, std.ID)
	if err != nil {
		return err
	}
	if !ok {
		_, _ = fmt.Fprintf(cli.out, "no marks recorded for %s yet\n", std.Roll)
		return nil
	}

	if format != "" {
		_, err = cli.writeExport(format, outDir, "report_"+rep.Summary.Roll, report.DetailTable(rep), report.SummaryTable(rep.Summary))
		return err
	}

	_, _ = fmt.Fprintf(cli.out, "%s (%s)\n\n", rep.Summary.Name, rep.Summary.Roll)
	tw := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CODE\tTITLE\tCREDITS\tMARKS\tMAX\tPERCENT\tGRADE\tPOINT")
	for _, r := range rep.Rows {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%g\t%.2f\t%s\t%.2f\n",
			r.Code, r.Title, r.Credits, r.Marks, r.MaxMarks, r.Percent, r.Grade, r.GradePoint)
	}
	if err = tw.Flush(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "\ntotal credits: %g  total credit points: %g  CGPA: %.2f\n",
		rep.Summary.TotalCredits, rep.Summary.TotalCreditPoints, rep.Summary.CGPA)
	return nil
}

func (cli *commandLine) rank(format, outDir string) error {
	summaries, err := cli.engine.RankAll(context.Background())
	if err != nil {
		return err
	}

	if format != "" {
		_, err = cli.writeExport(format, outDir, "ranking", report.RankingTable(summaries))
		return err
	}

	if len(summaries) == 0 {
		_, _ = fmt.Fprintln(cli.out, "no marks recorded yet")
		return nil
	}
	tw := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RANK\tROLL\tNAME\tCGPA\tCREDITS")
	for i, s := range summaries {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%g\n", i+1, s.Roll, s.Name, s.CGPA, s.TotalCredits)
	}
	return tw.Flush()
}

func (cli *commandLine) exportAll(format, outDir string) error {
	ctx := context.Background()
	students, err := cli.recordSvc.ListStudents(ctx)
	if err != nil {
		return err
	}
	subjects, err := cli.recordSvc.ListSubjects(ctx)
	if err != nil {
		return err
	}
	sheet, err := cli.recordSvc.ListMarkSheet(ctx)
	if err != nil {
		return err
	}

	_, err = cli.writeExport(format, outDir, allResultsName,
		record.StudentsTable(students),
		record.SubjectsTable(subjects),
		record.MarkSheetTable(sheet),
	)
	return err
}
