package gradebook

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

// Gradebook builds the gradebook of every student in the store.
// Students and each grade partition are fetched once and joined in memory, keeping store order.
// Averages are left to StudentView.
func (svc *Service) Gradebook(ctx context.Context) (Gradebook, error) {
	students, err := svc.store.QueryStudents(ctx)
	if err != nil {
		return Gradebook{}, errors.Wrap(err, "querying students")
	}

	partitions := make(map[Subject][]Grade, len(Subjects))
	for _, subj := range Subjects {
		grades, err := svc.store.QueryGrades(ctx, subj)
		if err != nil {
			return Gradebook{}, errors.Wrapf(err, "querying %s grades", subj)
		}
		partitions[subj] = grades
	}

	book := Gradebook{Students: make([]GradebookStudent, 0, len(students))}
	for _, std := range students {
		grades := newStudentGrades()
		for _, subj := range Subjects {
			grades.set(subj, filterByStudent(partitions[subj], std.ID))
		}
		book.Students = append(book.Students, newGradebookStudent(std, grades))
	}
	return book, nil
}

func filterByStudent(grades []Grade, studentID int) []Grade {
	matched := make([]Grade, 0)
	for _, g := range grades {
		if g.StudentID == studentID {
			matched = append(matched, g)
		}
	}
	return matched
}

// StudentView returns the student with its grades and per-subject averages.
// It returns ErrNotFound when the student does not exist.
func (svc *Service) StudentView(ctx context.Context, studentID int) (StudentView, error) {
	std, err := svc.store.GetStudent(ctx, studentID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return StudentView{}, ErrNotFound
		}
		return StudentView{}, errors.Wrap(err, "finding student by ID")
	}

	grades := newStudentGrades()
	for _, subj := range Subjects {
		sg, err := svc.store.QueryGradesByStudent(ctx, subj, std.ID)
		if err != nil {
			return StudentView{}, errors.Wrapf(err, "querying %s grades of student", subj)
		}
		grades.set(subj, sg)
	}

	return StudentView{
		GradebookStudent: newGradebookStudent(std, grades),
		MathAverage:      SubjectAverage(grades.MathGradeResults),
		ScienceAverage:   SubjectAverage(grades.ScienceGradeResults),
		HistoryAverage:   SubjectAverage(grades.HistoryGradeResults),
	}, nil
}

// GradePointAverage returns the arithmetic mean of the grades. grades must not be empty.
func GradePointAverage(grades []Grade) float64 {
	var sum float64
	for _, g := range grades {
		sum += g.Grade
	}
	return sum / float64(len(grades))
}

// SubjectAverage is the GradePointAverage of grades, or an invalid null.Float64 when there are none.
func SubjectAverage(grades []Grade) null.Float64 {
	if len(grades) == 0 {
		return null.Float64{}
	}
	return null.Float64From(GradePointAverage(grades))
}
