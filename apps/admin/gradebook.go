package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core/gradebook"
)

const notAvailable = "N/A"

var heading = color.New(color.FgYellow, color.Bold)

func formatAverage(avg null.Float64) string {
	if !avg.Valid {
		return notAvailable
	}
	return strconv.FormatFloat(avg.Float64, 'f', 2, 64)
}

func (cli *commandLine) gradebook(ctx context.Context) error {
	book, err := cli.svc.Gradebook(ctx)
	if err != nil {
		return err
	}

	heading.Fprintf(cli.out, "\nGradebook (%d students)\n", len(book.Students))
	table := tablewriter.NewWriter(cli.out)
	table.SetHeader([]string{"ID", "Name", "Email", "Math", "Science", "History"})
	for _, std := range book.Students {
		row := []string{
			strconv.Itoa(std.ID),
			std.Firstname + " " + std.Lastname,
			std.EmailAddress,
		}
		for _, subj := range gradebook.Subjects {
			row = append(row, formatAverage(gradebook.SubjectAverage(std.StudentGrades.For(subj))))
		}
		table.Append(row)
	}
	table.Render()
	return nil
}

func (cli *commandLine) student(ctx context.Context, id int) error {
	view, err := cli.svc.StudentView(ctx, id)
	if err != nil {
		return err
	}

	heading.Fprintf(cli.out, "\n%s %s <%s>\n", view.Firstname, view.Lastname, view.EmailAddress)
	table := tablewriter.NewWriter(cli.out)
	table.SetHeader([]string{"Subject", "Grades", "Average"})
	for _, subj := range gradebook.Subjects {
		grades := view.StudentGrades.For(subj)
		cells := ""
		for i, g := range grades {
			if i > 0 {
				cells += ", "
			}
			cells += fmt.Sprintf("#%d: %s", g.ID, strconv.FormatFloat(g.Grade, 'f', -1, 64))
		}
		table.Append([]string{subj.String(), cells, formatAverage(view.Average(subj))})
	}
	table.Render()
	return nil
}

func (cli *commandLine) addStudent(ctx context.Context, ns gradebook.NewStudent) error {
	if err := ns.Validate(cli.validate); err != nil {
		return cli.validationError("student", err)
	}
	std, err := cli.svc.CreateStudent(ctx, ns)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(cli.out, "student %d created\n", std.ID)
	return nil
}

func (cli *commandLine) deleteStudent(ctx context.Context, id int) error {
	exists, err := cli.svc.StudentExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return gradebook.ErrNotFound
	}
	if err = cli.svc.DeleteStudent(ctx, id); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(cli.out, "student %d deleted\n", id)
	return nil
}

func (cli *commandLine) addGrade(ctx context.Context, studentID int, gradeType string, value float64) error {
	ok, err := cli.svc.CreateGrade(ctx, value, studentID, gradeType)
	if err != nil {
		return err
	}
	if !ok {
		return gradebook.ErrNotFound
	}
	color.New(color.FgGreen).Fprintf(cli.out, "%s grade added to student %d\n", gradeType, studentID)
	return nil
}

func (cli *commandLine) deleteGrade(ctx context.Context, id int, gradeType string) error {
	studentID, ok, err := cli.svc.DeleteGrade(ctx, id, gradeType)
	if err != nil {
		return err
	}
	if !ok {
		return gradebook.ErrNotFound
	}
	color.New(color.FgGreen).Fprintf(cli.out, "%s grade %d deleted from student %d\n", gradeType, id, studentID)
	return nil
}
