package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/gradebook"
)

type gradebookApi struct {
	svc      *gradebook.Service
	validate *validator.Validate
}

func registerGradebookAPI(g *echo.Group, svc *gradebook.Service, validate *validator.Validate) {
	api := gradebookApi{
		svc:      svc,
		validate: validate,
	}

	g.GET("/", api.gradebook)
	g.POST("/", api.createStudent)
	g.DELETE("/student/:id", api.deleteStudent)
	g.GET("/studentInformation/:id", api.studentInformation)

	g.POST("/grades", api.createGrade)
	g.DELETE("/grades/:id/:gradeType", api.deleteGrade)
}

// Handlers

func (api *gradebookApi) gradebook(ctx echo.Context) error {
	return api.renderGradebook(ctx)
}

func (api *gradebookApi) createStudent(ctx echo.Context) error {
	var data gradebook.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if _, err := api.svc.CreateStudent(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "creating student")
	}
	return api.renderGradebook(ctx)
}

func (api *gradebookApi) deleteStudent(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.requireStudent(ctx, id); err != nil {
		return err
	}

	if err = api.svc.DeleteStudent(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return api.renderGradebook(ctx)
}

func (api *gradebookApi) studentInformation(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	return api.renderStudent(ctx, id)
}

func (api *gradebookApi) createGrade(ctx echo.Context) error {
	var data gradebook.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	// Bind skips query params on POST; bodyless requests carry the grade there.
	if ctx.Request().ContentLength == 0 {
		if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &data); err != nil {
			return errors.Wrap(err, "binding query params to NewGrade")
		}
	}
	if err := api.requireStudent(ctx, data.StudentID); err != nil {
		return err
	}

	ok, err := api.svc.CreateGrade(ctx.Request().Context(), data.Grade, data.StudentID, data.GradeType)
	if err != nil {
		return errors.Wrap(err, "creating grade")
	}
	if !ok {
		return errHttpNotFound
	}
	return api.renderStudent(ctx, data.StudentID)
}

func (api *gradebookApi) deleteGrade(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	studentID, ok, err := api.svc.DeleteGrade(ctx.Request().Context(), id, ctx.Param("gradeType"))
	if err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	if !ok {
		return errHttpNotFound
	}
	return api.renderStudent(ctx, studentID)
}

// Helpers

func (api *gradebookApi) renderGradebook(ctx echo.Context) error {
	book, err := api.svc.Gradebook(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "building gradebook")
	}
	return ctx.JSON(http.StatusOK, book.Students)
}

func (api *gradebookApi) renderStudent(ctx echo.Context, id int) error {
	view, err := api.svc.StudentView(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == gradebook.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "building student view")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *gradebookApi) requireStudent(ctx echo.Context, id int) error {
	exists, err := api.svc.StudentExists(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "checking student")
	}
	if !exists {
		return errHttpNotFound
	}
	return nil
}

// paramID parses an id path param; anything but an integer cannot be found.
func paramID(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, errHttpNotFound
	}
	return id, nil
}
