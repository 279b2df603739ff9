package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/gradebook/core/record"
)

const (
	maxSuggestions   = 3
	suggestionCutoff = 0.6
)

func (cli *commandLine) addStudent(ns record.NewStudent) error {
	std, err := cli.recordSvc.AddStudent(context.Background(), ns)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "added student %s (%s) #%d\n", std.Roll, std.Name, std.ID)
	return nil
}

func (cli *commandLine) addSubject(ns record.NewSubject) error {
	sub, err := cli.recordSvc.AddSubject(context.Background(), ns)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "added subject %s (%s, %g credits) #%d\n", sub.Code, sub.Title, sub.Credits, sub.ID)
	return nil
}

func (cli *commandLine) setMarks(me record.MarkEntry) error {
	ctx := context.Background()
	mark, err := cli.recordSvc.UpsertMarks(ctx, me)
	if err != nil {
		return cli.suggest(ctx, err, me.Roll, me.SubjectCode)
	}
	_, _ = fmt.Fprintf(cli.out, "saved %s / %s: %g / %g\n", me.Roll, me.SubjectCode, mark.Marks, mark.MaxMarks)
	return nil
}

// suggest decorates not-found errors with the closest known rolls or subject codes.
func (cli *commandLine) suggest(ctx context.Context, err error, roll, code string) error {
	var word string
	var known []string

	switch {
	case errors.Is(err, record.ErrStudentNotFound):
		students, lErr := cli.recordSvc.ListStudents(ctx)
		if lErr != nil {
			return err
		}
		word = roll
		for _, s := range students {
			known = append(known, s.Roll)
		}
	case errors.Is(err, record.ErrSubjectNotFound):
		subjects, lErr := cli.recordSvc.ListSubjects(ctx)
		if lErr != nil {
			return err
		}
		word = code
		for _, s := range subjects {
			known = append(known, s.Code)
		}
	default:
		return err
	}

	matches := closeMatches(word, known)
	if len(matches) == 0 {
		return err
	}
	return errors.Wrapf(err, "%q (did you mean %s?)", word, strings.Join(matches, ", "))
}

// closeMatches returns up to maxSuggestions of `candidates` similar enough to `word`, best match first.
func closeMatches(word string, candidates []string) []string {
	type scored struct {
		value string
		ratio float64
	}

	var matches []scored
	for _, c := range candidates {
		ratio := difflib.NewMatcher(strings.Split(word, ""), strings.Split(c, "")).Ratio()
		if ratio >= suggestionCutoff {
			matches = append(matches, scored{value: c, ratio: ratio})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].ratio > matches[j].ratio })

	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	values := make([]string, len(matches))
	for i, m := range matches {
		values[i] = m.value
	}
	return values
}

func (cli *commandLine) listStudents() error {
	students, err := cli.recordSvc.ListStudents(context.Background())
	if err != nil {
		return err
	}
	if len(students) == 0 {
		_, _ = fmt.Fprintln(cli.out, "no students yet")
		return nil
	}
	tw := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tROLL\tNAME\tPROGRAM")
	for _, s := range students {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.ID, s.Roll, s.Name, s.Program)
	}
	return tw.Flush()
}

func (cli *commandLine) listSubjects() error {
	subjects, err := cli.recordSvc.ListSubjects(context.Background())
	if err != nil {
		return err
	}
	if len(subjects) == 0 {
		_, _ = fmt.Fprintln(cli.out, "no subjects yet")
		return nil
	}
	tw := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tCODE\tTITLE\tCREDITS")
	for _, s := range subjects {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%g\n", s.ID, s.Code, s.Title, s.Credits)
	}
	return tw.Flush()
}
