package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
)

// one table per grade partition, all sharing the same columns
var gradeTables = map[gradebook.Subject]string{
	gradebook.Math:    "math_grade",
	gradebook.Science: "science_grade",
	gradebook.History: "history_grade",
}

type (
	studentRow struct {
		ID           int    `db:"id"`
		Firstname    string `db:"firstname"`
		Lastname     string `db:"lastname"`
		EmailAddress string `db:"email_address"`
	}

	gradeRow struct {
		ID        int     `db:"id"`
		StudentID int     `db:"student_id"`
		Grade     float64 `db:"grade"`
	}
)

func (r studentRow) unwrap() gradebook.Student {
	return gradebook.Student{
		ID:           r.ID,
		Firstname:    r.Firstname,
		Lastname:     r.Lastname,
		EmailAddress: r.EmailAddress,
	}
}

func (r gradeRow) unwrap(subj gradebook.Subject) gradebook.Grade {
	return gradebook.Grade{
		ID:        r.ID,
		StudentID: r.StudentID,
		Grade:     r.Grade,
		Subject:   subj,
	}
}

func unwrapGrades(rows []gradeRow, subj gradebook.Subject) []gradebook.Grade {
	grades := make([]gradebook.Grade, 0, len(rows))
	for _, r := range rows {
		grades = append(grades, r.unwrap(subj))
	}
	return grades
}

// repository runs its queries on exec, either the DB or a transaction.
type repository struct {
	exec core.DBExecutor
}

var _ gradebook.Repository = (*repository)(nil) // interface compliance check

// trapNoRowsErr maps psql "no rows" err to gradebook.ErrNotFound
func trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return gradebook.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func gradeTable(subj gradebook.Subject) (string, error) {
	if table, ok := gradeTables[subj]; ok {
		return table, nil
	}
	return "", gradebook.ErrUnknownSubject
}

func (repo *repository) QueryStudents(ctx context.Context) ([]gradebook.Student, error) {
	var rows []studentRow
	q := `SELECT id, firstname, lastname, email_address FROM student ORDER BY id`
	if err := repo.exec.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]gradebook.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.unwrap())
	}
	return students, nil
}

func (repo *repository) GetStudent(ctx context.Context, id int) (gradebook.Student, error) {
	var row studentRow
	q := `SELECT id, firstname, lastname, email_address FROM student WHERE id = $1`
	if err := repo.exec.GetContext(ctx, &row, q, id); err != nil {
		return gradebook.Student{}, trapNoRowsErr(err, "finding student by ID")
	}
	return row.unwrap(), nil
}

func (repo *repository) CreateStudent(ctx context.Context, std gradebook.Student) (gradebook.Student, error) {
	q := `INSERT INTO student (firstname, lastname, email_address) VALUES ($1, $2, $3) RETURNING id`
	if err := repo.exec.QueryRowxContext(ctx, q, std.Firstname, std.Lastname, std.EmailAddress).Scan(&std.ID); err != nil {
		return gradebook.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo *repository) DeleteStudent(ctx context.Context, id int) error {
	if _, err := repo.exec.ExecContext(ctx, `DELETE FROM student WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return nil
}

func (repo *repository) QueryGrades(ctx context.Context, subj gradebook.Subject) ([]gradebook.Grade, error) {
	table, err := gradeTable(subj)
	if err != nil {
		return nil, err
	}
	var rows []gradeRow
	q := fmt.Sprintf(`SELECT id, student_id, grade FROM %s ORDER BY id`, table)
	if err = repo.exec.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrapf(err, "querying %s", table)
	}
	return unwrapGrades(rows, subj), nil
}

func (repo *repository) GetGrade(ctx context.Context, subj gradebook.Subject, id int) (gradebook.Grade, error) {
	table, err := gradeTable(subj)
	if err != nil {
		return gradebook.Grade{}, err
	}
	var row gradeRow
	q := fmt.Sprintf(`SELECT id, student_id, grade FROM %s WHERE id = $1`, table)
	if err = repo.exec.GetContext(ctx, &row, q, id); err != nil {
		return gradebook.Grade{}, trapNoRowsErr(err, "finding "+table+" by ID")
	}
	return row.unwrap(subj), nil
}

func (repo *repository) QueryGradesByStudent(ctx context.Context, subj gradebook.Subject, studentID int) ([]gradebook.Grade, error) {
	table, err := gradeTable(subj)
	if err != nil {
		return nil, err
	}
	var rows []gradeRow
	q := fmt.Sprintf(`SELECT id, student_id, grade FROM %s WHERE student_id = $1 ORDER BY id`, table)
	if err = repo.exec.SelectContext(ctx, &rows, q, studentID); err != nil {
		return nil, errors.Wrapf(err, "querying %s by student", table)
	}
	return unwrapGrades(rows, subj), nil
}

func (repo *repository) CreateGrade(ctx context.Context, grade gradebook.Grade) (gradebook.Grade, error) {
	table, err := gradeTable(grade.Subject)
	if err != nil {
		return gradebook.Grade{}, err
	}
	q := fmt.Sprintf(`INSERT INTO %s (student_id, grade) VALUES ($1, $2) RETURNING id`, table)
	if err = repo.exec.QueryRowxContext(ctx, q, grade.StudentID, grade.Grade).Scan(&grade.ID); err != nil {
		return gradebook.Grade{}, errors.Wrapf(err, "inserting %s", table)
	}
	return grade, nil
}

func (repo *repository) DeleteGrade(ctx context.Context, subj gradebook.Subject, id int) error {
	table, err := gradeTable(subj)
	if err != nil {
		return err
	}
	if _, err = repo.exec.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id); err != nil {
		return errors.Wrapf(err, "deleting %s", table)
	}
	return nil
}

func (repo *repository) DeleteGradesByStudent(ctx context.Context, subj gradebook.Subject, studentID int) error {
	table, err := gradeTable(subj)
	if err != nil {
		return err
	}
	if _, err = repo.exec.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE student_id = $1`, table), studentID); err != nil {
		return errors.Wrapf(err, "deleting %s by student", table)
	}
	return nil
}
