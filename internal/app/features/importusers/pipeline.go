// internal/app/features/importusers/pipeline.go
package importusers

import (
	"context"
	"fmt"
	"strings"

	"github.com/learnloop/learnloop/internal/app/store/repo"
	"github.com/learnloop/learnloop/internal/app/system/inputval"
	"github.com/learnloop/learnloop/internal/app/system/normalize"
	"github.com/learnloop/learnloop/internal/app/system/passwords"
	"github.com/learnloop/learnloop/internal/app/system/tabular"
	"github.com/learnloop/learnloop/internal/domain/models"
)

// RowError describes why one import row was rejected. Reason joins
// every failed check for the row; Raw carries the row as parsed so the
// admin can fix and resubmit it.
type RowError struct {
	Line   int         `json:"line"`
	Reason string      `json:"reason"`
	Name   string      `json:"name,omitempty"`
	Email  string      `json:"email,omitempty"`
	Raw    tabular.Row `json:"raw"`
}

// IssuedCredential pairs a created account with its generated
// password. This is the only place the cleartext exists; it is shown
// to the importing admin once and never stored.
type IssuedCredential struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Report is the outcome of one import run.
type Report struct {
	Created   []models.User      `json:"created"`
	Errors    []RowError         `json:"errors"`
	Passwords []IssuedCredential `json:"passwords"`
}

// Options configures a pipeline run.
type Options struct {
	Strategy  passwords.Strategy
	CreatedBy string
	// Progress, when set, is called with a 0-100 percentage as rows
	// are processed.
	Progress func(percent int)
}

// Run validates every row, issues a credential for each valid one, and
// creates the survivors in a single batch. Invalid rows never block
// valid ones.
func Run(ctx context.Context, store *repo.Repository, rows []tabular.Row, opts Options) (Report, error) {
	var report Report

	type candidate struct {
		line     int
		draft    repo.UserDraft
		password string
	}
	var candidates []candidate

	seenEmail := make(map[string]int) // normalized email -> first line
	seenEmp := make(map[string]int)

	total := len(rows)
	progress := func(done int) {
		if opts.Progress != nil && total > 0 {
			opts.Progress(done * 100 / total)
		}
	}

	for i, row := range rows {
		if reasons := validateRow(store, row, seenEmail, seenEmp); len(reasons) > 0 {
			report.Errors = append(report.Errors, RowError{
				Line:   row.Line,
				Reason: strings.Join(reasons, "; "),
				Name:   row.Name,
				Email:  row.Email,
				Raw:    row,
			})
			progress(i + 1)
			continue
		}

		email := normalize.Email(row.Email)
		seenEmail[email] = row.Line
		if emp := normalize.EmployeeID(row.EmployeeID); emp != "" {
			seenEmp[emp] = row.Line
		}

		password := passwords.Generate(opts.Strategy)
		hash, err := passwords.Hash(password)
		if err != nil {
			return report, fmt.Errorf("hashing generated password: %w", err)
		}

		candidates = append(candidates, candidate{
			line:     row.Line,
			password: password,
			draft: repo.UserDraft{
				Email:        row.Email,
				Name:         row.Name,
				Phone:        row.Phone,
				EmployeeID:   row.EmployeeID,
				Location:     row.Location,
				IsAdmin:      inputval.ParseBool(row.IsAdmin),
				PasswordHash: hash,
				CreatedBy:    opts.CreatedBy,
			},
		})
		progress(i + 1)
	}

	if len(candidates) == 0 {
		return report, nil
	}

	drafts := make([]repo.UserDraft, len(candidates))
	for i, c := range candidates {
		drafts[i] = c.draft
	}
	created, skipped, err := store.CreateUsersBulk(ctx, drafts)
	if err != nil {
		return report, err
	}
	report.Created = created

	// Map issued credentials back to the users that actually landed,
	// and surface any rows the batch dropped as errors.
	skippedEmails := make(map[string]struct{}, len(skipped))
	for _, d := range skipped {
		skippedEmails[normalize.Email(d.Email)] = struct{}{}
	}
	createdByEmail := make(map[string]models.User, len(created))
	for _, u := range created {
		createdByEmail[u.Email] = u
	}
	for _, c := range candidates {
		email := normalize.Email(c.draft.Email)
		if _, ok := skippedEmails[email]; ok {
			report.Errors = append(report.Errors, RowError{
				Line:   c.line,
				Reason: "email or employee ID already exists",
				Name:   c.draft.Name,
				Email:  c.draft.Email,
			})
			continue
		}
		u := createdByEmail[email]
		report.Passwords = append(report.Passwords, IssuedCredential{
			UserID:   u.ID,
			Name:     u.Name,
			Email:    email,
			Password: c.password,
		})
	}

	return report, nil
}

// validateRow returns every reason the row fails, so the report names
// all of a row's problems at once instead of one per resubmission.
func validateRow(store *repo.Repository, row tabular.Row, seenEmail, seenEmp map[string]int) []string {
	var reasons []string

	if inputval.IsBlank(row.Name) {
		reasons = append(reasons, "missing name")
	}
	if inputval.IsBlank(row.Email) {
		reasons = append(reasons, "missing email")
	} else if !inputval.IsValidEmail(strings.TrimSpace(row.Email)) {
		reasons = append(reasons, "invalid email format")
	}
	if inputval.IsBlank(row.EmployeeID) {
		reasons = append(reasons, "missing employee ID")
	}
	if inputval.IsBlank(row.Phone) {
		reasons = append(reasons, "missing phone")
	}
	if inputval.IsBlank(row.Location) {
		reasons = append(reasons, "missing location")
	}

	if !inputval.IsBlank(row.Email) && inputval.IsValidEmail(strings.TrimSpace(row.Email)) {
		email := normalize.Email(row.Email)
		if first, dup := seenEmail[email]; dup {
			reasons = append(reasons, fmt.Sprintf("duplicate email (first appears on line %d)", first))
		} else if _, exists := store.FindUserByEmail(email); exists {
			reasons = append(reasons, "email already exists")
		}
	}

	if emp := normalize.EmployeeID(row.EmployeeID); emp != "" {
		if first, dup := seenEmp[emp]; dup {
			reasons = append(reasons, fmt.Sprintf("duplicate employee ID (first appears on line %d)", first))
		} else if _, exists := store.FindUserByEmployeeID(emp); exists {
			reasons = append(reasons, "employee ID already exists")
		}
	}

	return reasons
}
