package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db         *sqlx.DB // nil with the in-memory store
	svc        *gradebook.Service
	validate   *validator.Validate
	translator ut.Translator
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status...) against the database")
	fmt.Fprintln(cli.out, "  gradebook - list every student with their averages")
	fmt.Fprintln(cli.out, "  student -id ID - show a student's grades and averages")
	fmt.Fprintln(cli.out, "  addstudent -firstname NAME -lastname NAME -email EMAIL - add a student")
	fmt.Fprintln(cli.out, "  deletestudent -id ID - delete a student and all their grades")
	fmt.Fprintln(cli.out, "  addgrade -student ID -type math|science|history -grade GRADE - grade a student")
	fmt.Fprintln(cli.out, "  deletegrade -id ID -type math|science|history - delete a grade")
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
	ctx := context.Background()

	studentCmd := cli.newFlagSet("student")
	studentID := studentCmd.Int("id", 0, "The student's id.")

	addStudentCmd := cli.newFlagSet("addstudent")
	addStudentFirstname := addStudentCmd.String("firstname", "", "The student's first name.")
	addStudentLastname := addStudentCmd.String("lastname", "", "The student's last name.")
	addStudentEmail := addStudentCmd.String("email", "", "The student's email address.")

	deleteStudentCmd := cli.newFlagSet("deletestudent")
	deleteStudentID := deleteStudentCmd.Int("id", 0, "The student's id.")

	addGradeCmd := cli.newFlagSet("addgrade")
	addGradeStudent := addGradeCmd.Int("student", 0, "The graded student's id.")
	addGradeType := addGradeCmd.String("type", "", "The subject: math, science or history.")
	addGradeValue := addGradeCmd.Float64("grade", -1, "The grade, between 0 and 100.")

	deleteGradeCmd := cli.newFlagSet("deletegrade")
	deleteGradeID := deleteGradeCmd.Int("id", 0, "The grade's id.")
	deleteGradeType := deleteGradeCmd.String("type", "", "The subject: math, science or history.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2:])

	case "gradebook":
		return cli.gradebook(ctx)

	case "student":
		if err := studentCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *studentID == 0 {
			studentCmd.Usage()
			return errHelp
		}
		return cli.student(ctx, *studentID)

	case "addstudent":
		if err := addStudentCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.addStudent(ctx, gradebook.NewStudent{
			Firstname:    *addStudentFirstname,
			Lastname:     *addStudentLastname,
			EmailAddress: *addStudentEmail,
		})

	case "deletestudent":
		if err := deleteStudentCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *deleteStudentID == 0 {
			deleteStudentCmd.Usage()
			return errHelp
		}
		return cli.deleteStudent(ctx, *deleteStudentID)

	case "addgrade":
		if err := addGradeCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addGradeStudent == 0 || *addGradeType == "" {
			addGradeCmd.Usage()
			return errHelp
		}
		return cli.addGrade(ctx, *addGradeStudent, *addGradeType, *addGradeValue)

	case "deletegrade":
		if err := deleteGradeCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *deleteGradeID == 0 || *deleteGradeType == "" {
			deleteGradeCmd.Usage()
			return errHelp
		}
		return cli.deleteGrade(ctx, *deleteGradeID, *deleteGradeType)

	default:
		cli.printUsage()
		return errHelp
	}
}

// validationError flattens validator errors into a core.ValidationError,
// eg. "invalid student: firstname: this field is required".
func (cli *commandLine) validationError(what string, err error) error {
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	return core.NewValidationError(what, core.TranslateFieldErrors(vErrs, cli.translator)...)
}
