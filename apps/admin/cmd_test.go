package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fatih/color"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
	logsvc "github.com/trezcool/gradebook/services/logger"
	"github.com/trezcool/gradebook/storage/database"
	inmemdb "github.com/trezcool/gradebook/storage/database/inmem"
	"github.com/trezcool/gradebook/tests"
)

var store gradebook.Store

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	color.NoColor = true

	// set up store
	mem, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	store = inmemdb.NewStore(mem)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	// start CLI
	var out bytes.Buffer
	return &commandLine{
		svc:        gradebook.NewService(store, logsvc.NewDiscardLogger()),
		validate:   validate,
		translator: translator,
		out:        &out,
	}, &out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    []string
}

func runCliTests(t *testing.T, cli *commandLine, out *bytes.Buffer, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			} else if tt.wantErr != nil || tt.wantErrStr != "" {
				t.Errorf("cli.run() error = nil, wantErr %v%s", tt.wantErr, tt.wantErrStr)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(out.String(), want) {
					t.Errorf("cli.run() output = %s, want %q in it", out.String(), want)
				}
			}
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, out := setup(t)

	runCliTests(t, cli, out, []cliTest{
		{name: "in-memory store", args: []string{"migrate", "up"}, wantErr: errNoDatabase},
	})

	mockDB, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() failed: %v", err)
	}
	defer mockDB.Close()
	cli.db = sqlx.NewDb(mockDB, "postgres")

	gooseRun := database.GooseRunFunc
	defer func() { database.GooseRunFunc = gooseRun }()
	database.GooseRunFunc = func(_ context.Context, command string, db *sql.DB, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	runCliTests(t, cli, out, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "migrating database (lol): \"lol\": no such command"},
		{
			name: "up-to: no args", args: []string{"migrate", "up-to"},
			wantErrStr: "migrating database (up-to): up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION",
		},
		{
			name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"},
			wantErrStr: "migrating database (down-to): version must be a number (got 'lol')",
		},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
	})
}

func Test_commandLine_students(t *testing.T) {
	cli, out := setup(t)

	runCliTests(t, cli, out, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp, wantOut: []string{"Usage:"}},
		{name: "empty gradebook", args: []string{"gradebook"}, wantOut: []string{"Gradebook (0 students)"}},
		{
			name: "addstudent: missing fields", args: []string{"addstudent", "-firstname", "Eric"},
			wantErrStr: "invalid student: lastname: this field is required, emailAddress: this field is required",
		},
		{
			name: "addstudent", args: []string{"addstudent", "-firstname", "Eric", "-lastname", "Roby", "-email", "eric.roby@gmail.com"},
			wantOut: []string{"student 1 created"},
		},
		{name: "student: no id", args: []string{"student"}, wantErr: errHelp},
		{name: "student: unknown id", args: []string{"student", "-id", "9"}, wantErr: gradebook.ErrNotFound},
		{name: "student", args: []string{"student", "-id", "1"}, wantOut: []string{"Eric Roby <eric.roby@gmail.com>", "N/A"}},
		{name: "deletestudent: no id", args: []string{"deletestudent"}, wantErr: errHelp},
		{name: "deletestudent: unknown id", args: []string{"deletestudent", "-id", "9"}, wantErr: gradebook.ErrNotFound},
		{name: "deletestudent", args: []string{"deletestudent", "-id", "1"}, wantOut: []string{"student 1 deleted"}},
		{name: "deleted student", args: []string{"student", "-id", "1"}, wantErr: gradebook.ErrNotFound},
	})
}

func Test_commandLine_grades(t *testing.T) {
	cli, out := setup(t)
	eric := testutil.CreateStudent(t, store, "Eric", "Roby", "eric.roby@gmail.com")
	testutil.CreateStudent(t, store, "Jane", "Doe", "jane@test.cd")
	id := strconv.Itoa(eric.ID)

	runCliTests(t, cli, out, []cliTest{
		{name: "addgrade: no args", args: []string{"addgrade"}, wantErr: errHelp},
		{name: "addgrade: unknown student", args: []string{"addgrade", "-student", "9", "-type", "math", "-grade", "80"}, wantErr: gradebook.ErrNotFound},
		{name: "addgrade: out of range", args: []string{"addgrade", "-student", id, "-type", "math", "-grade", "101"}, wantErr: gradebook.ErrNotFound},
		{name: "addgrade: no grade", args: []string{"addgrade", "-student", id, "-type", "math"}, wantErr: gradebook.ErrNotFound},
		{name: "addgrade: unknown subject", args: []string{"addgrade", "-student", id, "-type", "art", "-grade", "80"}, wantErr: gradebook.ErrNotFound},
		{name: "addgrade: bad grade", args: []string{"addgrade", "-student", id, "-grade", "lol"}, wantErrStr: `invalid value "lol" for flag -grade: parse error`},
		{name: "addgrade", args: []string{"addgrade", "-student", id, "-type", "math", "-grade", "80"}, wantOut: []string{"math grade added to student 1"}},
		{name: "addgrade: upper case subject", args: []string{"addgrade", "-student", id, "-type", "Math", "-grade", "90"}, wantErr: gradebook.ErrNotFound},
		{name: "addgrade again", args: []string{"addgrade", "-student", id, "-type", "math", "-grade", "90"}},
		{name: "gradebook", args: []string{"gradebook"}, wantOut: []string{"Gradebook (2 students)", "85.00", "N/A", "jane@test.cd"}},
		{name: "student", args: []string{"student", "-id", id}, wantOut: []string{"#1: 80, #2: 90", "85.00"}},
		{name: "deletegrade: no args", args: []string{"deletegrade"}, wantErr: errHelp},
		{name: "deletegrade: unknown grade", args: []string{"deletegrade", "-id", "999", "-type", "math"}, wantErr: gradebook.ErrNotFound},
		{name: "deletegrade: unknown subject", args: []string{"deletegrade", "-id", "1", "-type", "art"}, wantErr: gradebook.ErrNotFound},
		{name: "deletegrade", args: []string{"deletegrade", "-id", "1", "-type", "math"}, wantOut: []string{"math grade 1 deleted from student 1"}},
		{name: "student after delete", args: []string{"student", "-id", id}, wantOut: []string{"#2: 90", "90.00"}},
	})
}
