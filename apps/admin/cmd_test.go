package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core/record"
	"github.com/trezcool/gradebook/core/report"
	logsvc "github.com/trezcool/gradebook/services/logger"
	sqlxrepos "github.com/trezcool/gradebook/storage/database/sqlx"
	"github.com/trezcool/gradebook/tests"
)

var recordRepo record.Repository

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	// set up DB & repos
	db := testutil.PrepareDB(t)
	recordRepo = sqlxrepos.NewRecordRepository(db)

	validate, _ := testutil.NewValidate()

	// start CLI
	var out bytes.Buffer
	return &commandLine{
		db:        db,
		recordSvc: record.NewService(recordRepo, validate, logsvc.NopLogger{}),
		engine:    report.NewEngine(recordRepo),
		out:       &out,
	}, &out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    string
}

func runTests(t *testing.T, cli *commandLine, out *bytes.Buffer, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			case tt.wantErrStr != "":
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
			default:
				require.NoError(t, err)
			}
			if tt.wantOut != "" {
				assert.Contains(t, out.String(), tt.wantOut)
			}
		})
	}
}

func Test_closeMatches(t *testing.T) {
	known := []string{"MTH101", "MTH102", "PHY101", "MTH201", "MTH111", "CHM101"}

	tests := []struct {
		name string
		word string
		want []string
	}{
		{name: "exact first", word: "MTH101", want: []string{"MTH101", "MTH102", "MTH201"}},
		{name: "typo", word: "PHY100", want: []string{"PHY101"}},
		{name: "nothing close", word: "zzz", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, closeMatches(tt.word, known))
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli, out := setup(t)

	runTests(t, cli, out, []cliTest{
		{name: "no command", wantErr: errHelp, wantOut: "Usage:"},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp, wantOut: "Usage:"},
		{name: "migrate without subcommand", args: []string{"migrate"}, wantErr: errHelp},
	})
}

func Test_commandLine_records(t *testing.T) {
	cli, out := setup(t)

	runTests(t, cli, out, []cliTest{
		{name: "addstudent: no args", args: []string{"addstudent"}, wantErr: errHelp},
		{name: "addstudent: no name", args: []string{"addstudent", "-roll", "R001"}, wantErr: errHelp},
		{name: "addstudent", args: []string{"addstudent", "-roll", "R001", "-name", "Ada", "-program", "CS"}, wantOut: "added student R001 (Ada) #1"},
		{name: "addstudent: duplicate", args: []string{"addstudent", "-roll", "R001", "-name", "Bob"}, wantErr: record.ErrStudentExists},
		{name: "addsubject: no args", args: []string{"addsubject"}, wantErr: errHelp},
		{name: "addsubject: bad credits", args: []string{"addsubject", "-code", "X", "-title", "X", "-credits", "lol"}, wantErrStr: `invalid value "lol" for flag -credits: parse error`},
		{name: "addsubject", args: []string{"addsubject", "-code", "MTH101", "-title", "Calculus", "-credits", "4"}, wantOut: "added subject MTH101 (Calculus, 4 credits) #1"},
		{name: "addsubject: duplicate", args: []string{"addsubject", "-code", "MTH101", "-title", "Other", "-credits", "3"}, wantErr: record.ErrSubjectExists},
		{name: "setmarks: no args", args: []string{"setmarks"}, wantErr: errHelp},
		{name: "setmarks: default max", args: []string{"setmarks", "-roll", "R001", "-subject", "MTH101", "-marks", "95"}, wantOut: "saved R001 / MTH101: 95 / 100"},
		{name: "setmarks: custom max", args: []string{"setmarks", "-roll", "R001", "-subject", "MTH101", "-marks", "45", "-max", "50"}, wantOut: "saved R001 / MTH101: 45 / 50"},
		{name: "setmarks: zero max", args: []string{"setmarks", "-roll", "R001", "-subject", "MTH101", "-marks", "45", "-max", "0"}, wantErrStr: "Key: 'MarkEntry.max_marks' Error:Field validation for 'max_marks' failed on the 'gt' tag"},
		{name: "setmarks: unknown roll", args: []string{"setmarks", "-roll", "R002", "-subject", "MTH101", "-marks", "1"}, wantErrStr: `"R002" (did you mean R001?): student not found`},
		{name: "setmarks: unknown subject", args: []string{"setmarks", "-roll", "R001", "-subject", "MTH102", "-marks", "1"}, wantErrStr: `"MTH102" (did you mean MTH101?): subject not found`},
		{name: "setmarks: unknown subject, no match", args: []string{"setmarks", "-roll", "R001", "-subject", "zzz", "-marks", "1"}, wantErrStr: "subject not found"},
		{name: "setmarks: unknown roll wraps sentinel", args: []string{"setmarks", "-roll", "R009", "-subject", "MTH101", "-marks", "1"}, wantErr: record.ErrStudentNotFound},
		{name: "students", args: []string{"students"}, wantOut: "R001  Ada   CS"},
		{name: "subjects", args: []string{"subjects"}, wantOut: "MTH101  Calculus  4"},
	})

	sheet, err := cli.recordSvc.ListMarkSheet(context.Background())
	require.NoError(t, err)
	require.Len(t, sheet, 1)
	assert.Equal(t, 45.0, sheet[0].Marks)
	assert.Equal(t, 50.0, sheet[0].MaxMarks)
}

func Test_commandLine_empty(t *testing.T) {
	cli, out := setup(t)
	testutil.CreateStudent(t, recordRepo, "R001", "Ada")

	runTests(t, cli, out, []cliTest{
		{name: "subjects", args: []string{"subjects"}, wantOut: "no subjects yet"},
		{name: "report without marks", args: []string{"report", "-roll", "R001"}, wantOut: "no marks recorded for R001 yet"},
		{name: "rank without marks", args: []string{"rank"}, wantOut: "no marks recorded yet"},
	})
}

func Test_commandLine_reports(t *testing.T) {
	cli, out := setup(t)
	dir := t.TempDir()

	report.NowFunc = func() time.Time { return time.Date(2024, 6, 30, 9, 0, 0, 0, time.UTC) }
	defer func() { report.NowFunc = time.Now }()

	testutil.CreateStudent(t, recordRepo, "R001", "Ada")
	testutil.CreateStudent(t, recordRepo, "R002", "Bob")
	testutil.CreateSubject(t, recordRepo, "MTH101", "Calculus", 4)
	testutil.CreateSubject(t, recordRepo, "PHY101", "Physics", 3)
	testutil.SetMarks(t, recordRepo, "R001", "MTH101", 95, 100)
	testutil.SetMarks(t, recordRepo, "R001", "PHY101", 65, 100)
	testutil.SetMarks(t, recordRepo, "R002", "MTH101", 85, 100)

	runTests(t, cli, out, []cliTest{
		{name: "report: no args", args: []string{"report"}, wantErr: errHelp},
		{name: "report: unknown roll", args: []string{"report", "-roll", "R003"}, wantErr: record.ErrStudentNotFound},
		{name: "report", args: []string{"report", "-roll", "R001"}, wantOut: "total credits: 7  total credit points: 61  CGPA: 8.71"},
		{name: "report: unknown format", args: []string{"report", "-roll", "R001", "-format", "pdf", "-out", dir}, wantErrStr: "unknown export format; expected csv or xlsx"},
		{name: "report: csv", args: []string{"report", "-roll", "R001", "-format", "csv", "-out", dir}, wantOut: "report_R001.csv"},
		{name: "report: xlsx", args: []string{"report", "-roll", "R001", "-format", "xlsx", "-out", dir}, wantOut: "report_R001.xlsx"},
		{name: "rank", args: []string{"rank"}, wantOut: "1     R002  Bob   9.00"},
		{name: "rank: csv", args: []string{"rank", "-format", "csv", "-out", dir}, wantOut: "ranking.csv"},
		{name: "export", args: []string{"export", "-out", dir}, wantOut: "all_results.xlsx"},
		{name: "export: csv", args: []string{"export", "-format", "csv", "-out", dir}, wantOut: "all_results.csv"},
	})

	csvReport, err := os.ReadFile(filepath.Join(dir, "report_R001.csv"))
	require.NoError(t, err)
	assert.Equal(t,
		"# report\n"+
			"code,title,credits,marks,max_marks,percent,grade,grade_point\n"+
			"MTH101,Calculus,4,95,100,95,A+,10\n"+
			"PHY101,Physics,3,65,100,65,B,7\n"+
			"\n"+
			"# summary\n"+
			"roll,name,total_credits,total_credit_points,cgpa,generated_at\n"+
			"R001,Ada,7,61,8.71,2024-06-30T09:00:00Z\n",
		string(csvReport))

	ranking, err := os.ReadFile(filepath.Join(dir, "ranking.csv"))
	require.NoError(t, err)
	assert.Equal(t,
		"rank,roll,name,cgpa,total_credits\n"+
			"1,R002,Bob,9,4\n"+
			"2,R001,Ada,8.71,7\n",
		string(ranking))

	assert.FileExists(t, filepath.Join(dir, "report_R001.xlsx"))
	assert.FileExists(t, filepath.Join(dir, "all_results.xlsx"))
}

func Test_commandLine_migrate(t *testing.T) {
	cli, out := setup(t)

	orig := migrateFunc
	defer func() { migrateFunc = orig }()

	var gotCmd string
	var gotArgs []string
	migrateFunc = func(_ *sqlx.DB, command string, args ...string) error {
		gotCmd, gotArgs = command, args
		if command == "lol" {
			return errors.New(`"lol": no such command`)
		}
		return nil
	}

	runTests(t, cli, out, []cliTest{
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to", args: []string{"migrate", "up-to", "1"}},
	})
	assert.Equal(t, "up-to", gotCmd)
	assert.Equal(t, []string{"1"}, gotArgs)

	// the real thing against the test database
	migrateFunc = orig
	runTests(t, cli, out, []cliTest{
		{name: "status", args: []string{"migrate", "status"}},
	})
}

func Test_commandLine_reset(t *testing.T) {
	origTerm, origRead := isTerminalFunc, readLineFunc
	defer func() { isTerminalFunc, readLineFunc = origTerm, origRead }()

	tests := []struct {
		name       string
		args       []string
		isTerminal bool
		answer     string
		wantErr    error
		wantErased bool
	}{
		{name: "not confirmed, no terminal", args: []string{"reset"}, wantErr: record.ErrResetNotConfirmed},
		{name: "declined at prompt", args: []string{"reset"}, isTerminal: true, answer: "no\n", wantErr: record.ErrResetNotConfirmed},
		{name: "confirmed at prompt", args: []string{"reset"}, isTerminal: true, answer: "YES\n", wantErased: true},
		{name: "confirmed with flag", args: []string{"reset", "-yes"}, wantErased: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, _ := setup(t)
			testutil.CreateStudent(t, recordRepo, "R1", "Ada")

			isTerminalFunc = func(int) bool { return tt.isTerminal }
			readLineFunc = func() (string, error) { return tt.answer, nil }

			err := cli.run(append([]string{"admin"}, tt.args...))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			students, err := recordRepo.QueryStudents(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantErased, len(students) == 0)
		})
	}
}
