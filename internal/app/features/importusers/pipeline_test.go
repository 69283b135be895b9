// internal/app/features/importusers/pipeline_test.go
package importusers

import (
	"context"
	"strings"
	"testing"

	"github.com/learnloop/learnloop/internal/app/system/passwords"
	"github.com/learnloop/learnloop/internal/app/system/tabular"
	"github.com/learnloop/learnloop/internal/testutil"
)

func TestRunMixedRows(t *testing.T) {
	ctx := context.Background()
	r := testutil.NewRepo(t)
	f := testutil.NewFixtures(t, r)
	f.CreateUser(ctx, "Existing", "taken@test.com", "pw")

	rows := []tabular.Row{
		{Line: 2, Name: "Jane Doe", Email: "jane@test.com", Phone: "555-0100", EmployeeID: "E1", Location: "Springfield", IsAdmin: "true"},
		{Line: 3, Name: "", Email: "noname@test.com", Phone: "555-0101", EmployeeID: "E2", Location: "Springfield"},
		{Line: 4, Name: "No Email", Phone: "555-0102", EmployeeID: "E3", Location: "Springfield"},
		{Line: 5, Name: "Bad Email", Email: "not-an-email", Phone: "555-0103", EmployeeID: "E4", Location: "Springfield"},
		{Line: 6, Name: "Taken", Email: "taken@test.com", Phone: "555-0104", EmployeeID: "E5", Location: "Springfield"},
		{Line: 7, Name: "Dup In File", Email: "JANE@test.com", Phone: "555-0105", EmployeeID: "E6", Location: "Springfield"},
		{Line: 8, Name: "John Roe", Email: "john@test.com", Phone: "555-0106", EmployeeID: "E7", Location: "Springfield"},
	}

	var lastPct int
	report, err := Run(ctx, r, rows, Options{
		Strategy:  passwords.StrategySimple,
		CreatedBy: "admin-1",
		Progress:  func(pct int) { lastPct = pct },
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(report.Created) != 2 {
		t.Fatalf("created %d, want 2: %+v", len(report.Created), report.Errors)
	}
	if report.Created[0].Email != "jane@test.com" || report.Created[1].Email != "john@test.com" {
		t.Errorf("created order: %s, %s", report.Created[0].Email, report.Created[1].Email)
	}
	if !report.Created[0].IsAdmin {
		t.Error("is_admin flag not parsed")
	}
	if report.Created[0].CreatedBy != "admin-1" {
		t.Errorf("created_by: %q", report.Created[0].CreatedBy)
	}

	if len(report.Errors) != 5 {
		t.Fatalf("got %d errors, want 5: %+v", len(report.Errors), report.Errors)
	}
	wantLines := map[int]bool{3: true, 4: true, 5: true, 6: true, 7: true}
	for _, re := range report.Errors {
		if !wantLines[re.Line] {
			t.Errorf("unexpected error line %d: %s", re.Line, re.Reason)
		}
	}

	if len(report.Passwords) != 2 {
		t.Fatalf("got %d credentials, want 2", len(report.Passwords))
	}
	for _, cred := range report.Passwords {
		if cred.Password == "" {
			t.Errorf("empty credential for %s", cred.Email)
		}
		if cred.UserID == "" {
			t.Errorf("credential for %s has no user id", cred.Email)
		}
	}
	if lastPct != 100 {
		t.Errorf("final progress %d, want 100", lastPct)
	}

	// Issued credentials actually log in: the hash matches.
	u, ok := r.FindUserByEmail("jane@test.com")
	if !ok {
		t.Fatal("created user not findable")
	}
	var janePw string
	for _, cred := range report.Passwords {
		if cred.Email == "jane@test.com" {
			janePw = cred.Password
		}
	}
	if !passwords.Verify(u.PasswordHash, janePw) {
		t.Error("stored hash does not verify against issued password")
	}
}

func TestRunAllInvalid(t *testing.T) {
	r := testutil.NewRepo(t)
	rows := []tabular.Row{
		{Line: 1, Name: "", Email: ""},
		{Line: 2, Name: "x", Email: "bad"},
	}
	report, err := Run(context.Background(), r, rows, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Created) != 0 || len(report.Passwords) != 0 {
		t.Errorf("something was created from invalid rows: %+v", report)
	}
	if len(report.Errors) != 2 {
		t.Errorf("got %d errors, want 2", len(report.Errors))
	}
}

func TestRunReportsEveryRowFailure(t *testing.T) {
	r := testutil.NewRepo(t)
	row := tabular.Row{Line: 2, Name: "", Email: "not-an-email", Phone: "555-0100", Location: "HQ"}

	report, err := Run(context.Background(), r, []tabular.Row{row}, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(report.Errors))
	}

	re := report.Errors[0]
	for _, want := range []string{"missing name", "invalid email format", "missing employee ID"} {
		if !strings.Contains(re.Reason, want) {
			t.Errorf("reason %q does not mention %q", re.Reason, want)
		}
	}
	if re.Raw != row {
		t.Errorf("raw row not carried: %+v", re.Raw)
	}
}

func TestRunDuplicateEmployeeID(t *testing.T) {
	r := testutil.NewRepo(t)
	rows := []tabular.Row{
		{Line: 1, Name: "One", Email: "one@test.com", Phone: "555-0100", EmployeeID: "E9", Location: "HQ"},
		{Line: 2, Name: "Two", Email: "two@test.com", Phone: "555-0101", EmployeeID: "E9", Location: "HQ"},
	}
	report, err := Run(context.Background(), r, rows, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Created) != 1 {
		t.Fatalf("created %d, want 1", len(report.Created))
	}
	if len(report.Errors) != 1 || report.Errors[0].Line != 2 {
		t.Errorf("errors: %+v", report.Errors)
	}
}
