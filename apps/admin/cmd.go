package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/gradebook/core/record"
	"github.com/trezcool/gradebook/core/report"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db        *sqlx.DB
	recordSvc *record.Service
	engine    *report.Engine
	out       io.Writer
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, `Usage:
  addstudent -roll ROLL -name NAME [-program PROGRAM]        - add a student
  addsubject -code CODE -title TITLE -credits CREDITS        - add a subject
  setmarks -roll ROLL -subject CODE -marks MARKS [-max MAX]  - insert or update a student's marks
  students                                                   - list students
  subjects                                                   - list subjects
  report -roll ROLL [-format csv|xlsx] [-out DIR]            - show or export a student's report
  rank [-format csv|xlsx] [-out DIR]                         - show or export the class ranking
  export [-format csv|xlsx] [-out DIR]                       - export all students, subjects and marks
  migrate COMMAND [ARGS...]                                  - run a goose migration command (up, down, status...)
  reset [-yes]                                               - erase ALL data`)
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "addstudent":
		cmd := cli.newFlagSet("addstudent")
		roll := cmd.String("roll", "", "The student's roll number.")
		name := cmd.String("name", "", "The student's name.")
		program := cmd.String("program", "", "The student's program (optional).")
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		if *roll == "" || *name == "" {
			cmd.Usage()
			return errHelp
		}
		return cli.addStudent(record.NewStudent{Roll: *roll, Name: *name, Program: *program})

	case "addsubject":
		cmd := cli.newFlagSet("addsubject")
		code := cmd.String("code", "", "The subject's code.")
		title := cmd.String("title", "", "The subject's title.")
		credits := cmd.Float64("credits", 0, "The subject's credits (> 0).")
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		if *code == "" || *title == "" {
			cmd.Usage()
			return errHelp
		}
		return cli.addSubject(record.NewSubject{Code: *code, Title: *title, Credits: *credits})

	case "setmarks":
		cmd := cli.newFlagSet("setmarks")
		roll := cmd.String("roll", "", "The student's roll number.")
		code := cmd.String("subject", "", "The subject's code.")
		marks := cmd.Float64("marks", 0, "The marks obtained.")
		maxMarks := cmd.Float64("max", record.DefaultMaxMarks, "The maximum marks.")
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		if *roll == "" || *code == "" {
			cmd.Usage()
			return errHelp
		}
		return cli.setMarks(record.MarkEntry{Roll: *roll, SubjectCode: *code, Marks: *marks, MaxMarks: *maxMarks})

	case "students":
		return cli.listStudents()

	case "subjects":
		return cli.listSubjects()

	case "report":
		cmd := cli.newFlagSet("report")
		roll := cmd.String("roll", "", "The student's roll number.")
		format := cmd.String("format", "", "Export format: csv or xlsx. The report is printed when omitted.")
		outDir := cmd.String("out", ".", "The directory exported files are written to.")
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		if *roll == "" {
			cmd.Usage()
			return errHelp
		}
		return cli.report(*roll, *format, *outDir)

	case "rank":
		cmd := cli.newFlagSet("rank")
		format := cmd.String("format", "", "Export format: csv or xlsx. The ranking is printed when omitted.")
		outDir := cmd.String("out", ".", "The directory exported files are written to.")
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.rank(*format, *outDir)

	case "export":
		cmd := cli.newFlagSet("export")
		format := cmd.String("format", "xlsx", "Export format: csv or xlsx.")
		outDir := cmd.String("out", ".", "The directory exported files are written to.")
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.exportAll(*format, *outDir)

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "reset":
		cmd := cli.newFlagSet("reset")
		yes := cmd.Bool("yes", false, "Skip the confirmation prompt.")
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.reset(*yes)

	default:
		cli.printUsage()
		return errHelp
	}
}
