package echoapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/grade"
	"github.com/trezcool/gradebook/core/record"
	"github.com/trezcool/gradebook/core/report"
	exportsvc "github.com/trezcool/gradebook/services/export"
)

const formatParam = "format"

type reportApi struct {
	svc    *record.Service
	engine *report.Engine
}

type ResetRequest struct {
	Confirm bool `json:"confirm"`
}

func registerReportAPI(g *echo.Group, svc *record.Service, engine *report.Engine) {
	api := reportApi{svc: svc, engine: engine}

	g.GET("/grades", api.grades)
	g.GET("/students/:roll/report", api.studentReport)
	g.GET("/ranking", api.ranking)
	g.GET("/export", api.exportAll)

	ag := g.Group("/admin")
	ag.POST("/reset", api.reset)
}

// download sends `tables` as an attachment named `<name><ext>`.
func download(ctx echo.Context, format, name string, tables ...core.Table) error {
	exp, err := exportsvc.ForFormat(format)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err = exp.Export(&buf, tables...); err != nil {
		return errors.Wrap(err, "exporting tables")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name+exp.Extension()))
	return ctx.Blob(http.StatusOK, exp.ContentType(), buf.Bytes())
}

// Handlers

func (api *reportApi) grades(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, grade.Bands())
}

func (api *reportApi) studentReport(ctx echo.Context) error {
	rep, ok, err := api.engine.ComputeByRoll(ctx.Request().Context(), ctx.Param("roll"))
	if err != nil {
		return errors.Wrap(err, "computing report")
	}
	if !ok {
		return ctx.NoContent(http.StatusNoContent)
	}
	if format := ctx.QueryParam(formatParam); format != "" {
		return download(ctx, format, "report_"+rep.Summary.Roll, report.DetailTable(rep), report.SummaryTable(rep.Summary))
	}
	return ctx.JSON(http.StatusOK, rep)
}

func (api *reportApi) ranking(ctx echo.Context) error {
	summaries, err := api.engine.RankAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "ranking students")
	}
	if format := ctx.QueryParam(formatParam); format != "" {
		return download(ctx, format, "ranking", report.RankingTable(summaries))
	}
	return ctx.JSON(http.StatusOK, summaries)
}

func (api *reportApi) exportAll(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	students, err := api.svc.ListStudents(reqCtx)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	subjects, err := api.svc.ListSubjects(reqCtx)
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	sheet, err := api.svc.ListMarkSheet(reqCtx)
	if err != nil {
		return errors.Wrap(err, "querying marks")
	}

	format := ctx.QueryParam(formatParam)
	if format == "" {
		format = exportsvc.FormatXLSX
	}
	return download(ctx, format, "all_results",
		record.StudentsTable(students),
		record.SubjectsTable(subjects),
		record.MarkSheetTable(sheet),
	)
}

func (api *reportApi) reset(ctx echo.Context) error {
	var data ResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetRequest")
	}
	if err := api.svc.Reset(ctx.Request().Context(), data.Confirm); err != nil {
		return errors.Wrap(err, "resetting records")
	}
	return ctx.NoContent(http.StatusNoContent)
}
