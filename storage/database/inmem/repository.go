package inmemdb

import (
	"context"

	"github.com/trezcool/gradebook/core/gradebook"
)

// repository works on the tables directly; the caller holds the DB lock.
type repository struct {
	t *tables
}

var _ gradebook.Repository = (*repository)(nil) // interface compliance check

func (repo *repository) gradeTable(subj gradebook.Subject) (*gradeTable, error) {
	if gt, ok := repo.t.grades[subj]; ok {
		return gt, nil
	}
	return nil, gradebook.ErrUnknownSubject
}

func (repo *repository) QueryStudents(_ context.Context) ([]gradebook.Student, error) {
	return append(make([]gradebook.Student, 0, len(repo.t.student.rows)), repo.t.student.rows...), nil
}

func (repo *repository) GetStudent(_ context.Context, id int) (gradebook.Student, error) {
	for _, std := range repo.t.student.rows {
		if std.ID == id {
			return std, nil
		}
	}
	return gradebook.Student{}, gradebook.ErrNotFound
}

func (repo *repository) CreateStudent(_ context.Context, std gradebook.Student) (gradebook.Student, error) {
	repo.t.student.pkCount++
	std.ID = repo.t.student.pkCount
	repo.t.student.rows = append(repo.t.student.rows, std)
	return std, nil
}

func (repo *repository) DeleteStudent(_ context.Context, id int) error {
	rows := make([]gradebook.Student, 0, len(repo.t.student.rows))
	for _, std := range repo.t.student.rows {
		if std.ID != id {
			rows = append(rows, std)
		}
	}
	repo.t.student.rows = rows
	return nil
}

func (repo *repository) QueryGrades(_ context.Context, subj gradebook.Subject) ([]gradebook.Grade, error) {
	gt, err := repo.gradeTable(subj)
	if err != nil {
		return nil, err
	}
	return append(make([]gradebook.Grade, 0, len(gt.rows)), gt.rows...), nil
}

func (repo *repository) GetGrade(_ context.Context, subj gradebook.Subject, id int) (gradebook.Grade, error) {
	gt, err := repo.gradeTable(subj)
	if err != nil {
		return gradebook.Grade{}, err
	}
	for _, g := range gt.rows {
		if g.ID == id {
			return g, nil
		}
	}
	return gradebook.Grade{}, gradebook.ErrNotFound
}

func (repo *repository) QueryGradesByStudent(_ context.Context, subj gradebook.Subject, studentID int) ([]gradebook.Grade, error) {
	gt, err := repo.gradeTable(subj)
	if err != nil {
		return nil, err
	}
	grades := make([]gradebook.Grade, 0)
	for _, g := range gt.rows {
		if g.StudentID == studentID {
			grades = append(grades, g)
		}
	}
	return grades, nil
}

func (repo *repository) CreateGrade(_ context.Context, grade gradebook.Grade) (gradebook.Grade, error) {
	gt, err := repo.gradeTable(grade.Subject)
	if err != nil {
		return gradebook.Grade{}, err
	}
	gt.pkCount++
	grade.ID = gt.pkCount
	gt.rows = append(gt.rows, grade)
	return grade, nil
}

func (repo *repository) DeleteGrade(_ context.Context, subj gradebook.Subject, id int) error {
	return repo.deleteGrades(subj, func(g gradebook.Grade) bool { return g.ID == id })
}

func (repo *repository) DeleteGradesByStudent(_ context.Context, subj gradebook.Subject, studentID int) error {
	return repo.deleteGrades(subj, func(g gradebook.Grade) bool { return g.StudentID == studentID })
}

func (repo *repository) deleteGrades(subj gradebook.Subject, match func(gradebook.Grade) bool) error {
	gt, err := repo.gradeTable(subj)
	if err != nil {
		return err
	}
	rows := make([]gradebook.Grade, 0, len(gt.rows))
	for _, g := range gt.rows {
		if !match(g) {
			rows = append(rows, g)
		}
	}
	gt.rows = rows
	return nil
}
