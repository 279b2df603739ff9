package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/record"
)

type recordApi struct {
	svc *record.Service
}

// MarksRequest is the body of `PUT /v1/marks`. MaxMarks defaults to record.DefaultMaxMarks when omitted.
type MarksRequest struct {
	Roll        string   `json:"roll"`
	SubjectCode string   `json:"subject_code"`
	Marks       float64  `json:"marks"`
	MaxMarks    *float64 `json:"max_marks"`
}

func (req MarksRequest) entry() record.MarkEntry {
	maxMarks := record.DefaultMaxMarks
	if req.MaxMarks != nil {
		maxMarks = *req.MaxMarks
	}
	return record.MarkEntry{
		Roll:        req.Roll,
		SubjectCode: req.SubjectCode,
		Marks:       req.Marks,
		MaxMarks:    maxMarks,
	}
}

func registerRecordAPI(g *echo.Group, svc *record.Service) {
	api := recordApi{svc: svc}

	g.GET("/dashboard", api.dashboard)

	g.GET("/students", api.queryStudents)
	g.POST("/students", api.createStudent)

	g.GET("/subjects", api.querySubjects)
	g.POST("/subjects", api.createSubject)

	g.GET("/marks", api.queryMarks)
	g.PUT("/marks", api.upsertMarks)
}

// Handlers

func (api *recordApi) dashboard(ctx echo.Context) error {
	counts, err := api.svc.Counts(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "counting records")
	}
	return ctx.JSON(http.StatusOK, counts)
}

func (api *recordApi) createStudent(ctx echo.Context) error {
	var data record.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	std, err := api.svc.AddStudent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "adding student")
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *recordApi) queryStudents(ctx echo.Context) error {
	students, err := api.svc.ListStudents(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *recordApi) createSubject(ctx echo.Context) error {
	var data record.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	sub, err := api.svc.AddSubject(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "adding subject")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *recordApi) querySubjects(ctx echo.Context) error {
	subjects, err := api.svc.ListSubjects(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *recordApi) upsertMarks(ctx echo.Context) error {
	var data MarksRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarksRequest")
	}
	mark, err := api.svc.UpsertMarks(ctx.Request().Context(), data.entry())
	if err != nil {
		return errors.Wrap(err, "upserting marks")
	}
	return ctx.JSON(http.StatusOK, mark)
}

func (api *recordApi) queryMarks(ctx echo.Context) error {
	sheet, err := api.svc.ListMarkSheet(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying marks")
	}
	return ctx.JSON(http.StatusOK, sheet)
}
