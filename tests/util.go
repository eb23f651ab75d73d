package testutil

import (
	"context"
	"testing"

	"github.com/trezcool/gradebook/core/gradebook"
)

func CreateStudent(t *testing.T, repo gradebook.Repository, firstname, lastname, email string) gradebook.Student {
	t.Helper()
	std, err := repo.CreateStudent(context.Background(), gradebook.Student{
		Firstname:    firstname,
		Lastname:     lastname,
		EmailAddress: email,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

// CreateGrade stores the grade as is; the grade bounds are not checked.
func CreateGrade(t *testing.T, repo gradebook.Repository, subj gradebook.Subject, studentID int, value float64) gradebook.Grade {
	t.Helper()
	grade, err := repo.CreateGrade(context.Background(), gradebook.Grade{
		StudentID: studentID,
		Grade:     value,
		Subject:   subj,
	})
	if err != nil {
		t.Fatalf("CreateGrade() failed: %v", err)
	}
	return grade
}

// SeedEric creates Eric Roby with one grade of 100 in every subject.
func SeedEric(t *testing.T, repo gradebook.Repository) (gradebook.Student, map[gradebook.Subject]gradebook.Grade) {
	t.Helper()
	std := CreateStudent(t, repo, "Eric", "Roby", "eric.roby@gmail.com")
	grades := make(map[gradebook.Subject]gradebook.Grade, len(gradebook.Subjects))
	for _, subj := range gradebook.Subjects {
		grades[subj] = CreateGrade(t, repo, subj, std.ID, 100)
	}
	return std, grades
}
