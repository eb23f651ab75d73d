package gradebook

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func TestParseSubject(t *testing.T) {
	tests := []struct {
		name    string
		want    Subject
		wantErr bool
	}{
		{name: "math", want: Math},
		{name: "science", want: Science},
		{name: "history", want: History},
		{name: "MATH", wantErr: true},
		{name: "Science", wantErr: true},
		{name: " math", wantErr: true},
		{name: "Science\t", wantErr: true},
		{name: " HISTORY ", wantErr: true},
		{name: "literature", wantErr: true},
		{name: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSubject(tt.name)
			if tt.wantErr {
				assert.Equal(t, ErrUnknownSubject, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubject_text(t *testing.T) {
	var got struct {
		Subject Subject `json:"subject"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"subject": "science"}`), &got))
	assert.Equal(t, Science, got.Subject)
	assert.Error(t, json.Unmarshal([]byte(`{"subject": "Science"}`), &got))
	assert.Error(t, json.Unmarshal([]byte(`{"subject": "art"}`), &got))

	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"subject": "science"}`, string(data))

	_, err = Subject(0).MarshalText()
	assert.Equal(t, ErrUnknownSubject, err)
	assert.Equal(t, "Subject(7)", Subject(7).String())
}

func TestGradePointAverage(t *testing.T) {
	tests := []struct {
		name   string
		grades []float64
		want   float64
	}{
		{name: "one", grades: []float64{100}, want: 100},
		{name: "two", grades: []float64{80, 90}, want: 85},
		{name: "bounds", grades: []float64{0, 100}, want: 50},
		{name: "fractions", grades: []float64{70.5, 71.5, 72.5}, want: 71.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grades := make([]Grade, 0, len(tt.grades))
			for i, v := range tt.grades {
				grades = append(grades, Grade{ID: i + 1, Grade: v})
			}
			assert.InDelta(t, tt.want, GradePointAverage(grades), 1e-9)
		})
	}
}

func TestSubjectAverage(t *testing.T) {
	assert.Equal(t, null.Float64{}, SubjectAverage(nil))
	assert.Equal(t, null.Float64{}, SubjectAverage([]Grade{}))
	assert.Equal(t, null.Float64From(85), SubjectAverage([]Grade{{Grade: 80}, {Grade: 90}}))
}

func TestStudentView_json(t *testing.T) {
	grades := newStudentGrades()
	grades.set(Math, []Grade{{ID: 1, StudentID: 1, Grade: 100, Subject: Math}})
	grades.set(Science, nil)
	view := StudentView{
		GradebookStudent: newGradebookStudent(Student{ID: 1, Firstname: "Eric", Lastname: "Roby", EmailAddress: "eric.roby@gmail.com"}, grades),
		MathAverage:      SubjectAverage(grades.MathGradeResults),
		ScienceAverage:   SubjectAverage(grades.ScienceGradeResults),
		HistoryAverage:   SubjectAverage(grades.HistoryGradeResults),
	}

	data, err := json.Marshal(view)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 1, "firstname": "Eric", "lastname": "Roby", "emailAddress": "eric.roby@gmail.com",
		"studentGrades": {
			"mathGradeResults": [{"id": 1, "studentId": 1, "grade": 100}],
			"scienceGradeResults": [],
			"historyGradeResults": []
		},
		"mathAverage": 100, "scienceAverage": null, "historyAverage": null
	}`, string(data))
}
