// internal/app/features/groups/handler_test.go
package groups

import (
	"context"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/learnloop/learnloop/internal/domain/models"
	"github.com/learnloop/learnloop/internal/testutil"
)

func newHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	r := testutil.NewRepo(t)
	return NewHandler(r, zap.NewNop()), testutil.NewFixtures(t, r)
}

func TestHandleCreate(t *testing.T) {
	h, _ := newHandler(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]string{
		"name":        "Cohort A",
		"description": "spring intake",
	})
	req = testutil.WithUser(req, testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)

	rec.AssertStatus(t, http.StatusCreated)
	var g models.Group
	rec.DecodeJSON(t, &g)
	if g.ID == "" || g.Name != "Cohort A" {
		t.Errorf("created group: %+v", g)
	}
}

func TestHandleCreateBlankName(t *testing.T) {
	h, _ := newHandler(t)
	req := testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]string{"name": "   "})
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleMine(t *testing.T) {
	h, f := newHandler(t)
	ctx := context.Background()
	u := f.CreateUser(ctx, "Alice", "alice@test.com", "pw")
	f.CreateGroup(ctx, "Mine", u.ID)
	f.CreateGroup(ctx, "Not mine")

	rec := testutil.NewRecorder()
	h.HandleMine(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/mine", u))

	rec.AssertStatus(t, http.StatusOK)
	var groups []models.Group
	rec.DecodeJSON(t, &groups)
	if len(groups) != 1 || groups[0].Name != "Mine" {
		t.Errorf("mine: %+v", groups)
	}
}

func TestHandleMineEmptyIsArray(t *testing.T) {
	h, f := newHandler(t)
	u := f.CreateUser(context.Background(), "Alice", "alice@test.com", "pw")

	rec := testutil.NewRecorder()
	h.HandleMine(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/mine", u))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "[]")
}

func TestHandleGetMembership(t *testing.T) {
	h, f := newHandler(t)
	ctx := context.Background()
	member := f.CreateUser(ctx, "Alice", "alice@test.com", "pw")
	outsider := f.CreateUser(ctx, "Bob", "bob@test.com", "pw")
	g := f.CreateGroup(ctx, "Cohort A", member.ID)

	get := func(u models.User) *testutil.ResponseRecorder {
		req := testutil.NewAuthenticatedRequest(http.MethodGet, "/"+g.ID, u)
		req = testutil.WithChiURLParam(req, "id", g.ID)
		rec := testutil.NewRecorder()
		h.HandleGet(rec, req)
		return rec
	}

	get(member).AssertStatus(t, http.StatusOK)
	get(outsider).AssertStatus(t, http.StatusForbidden)
	get(testutil.AdminUser()).AssertStatus(t, http.StatusOK)
}

func TestHandleMembership(t *testing.T) {
	h, f := newHandler(t)
	ctx := context.Background()
	u := f.CreateUser(ctx, "Alice", "alice@test.com", "pw")
	g := f.CreateGroup(ctx, "Cohort A")

	req := testutil.NewJSONRequest(t, http.MethodPost, "/"+g.ID+"/members", map[string]string{"user_id": u.ID})
	req = testutil.WithChiURLParam(req, "id", g.ID)
	rec := testutil.NewRecorder()
	h.HandleAddMember(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	got, _ := h.Repo.GroupByID(g.ID)
	if !got.HasMember(u.ID) {
		t.Fatal("member not added")
	}

	req = testutil.NewRequest(http.MethodDelete, "/"+g.ID+"/members/"+u.ID)
	req = testutil.WithChiURLParam(req, "id", g.ID)
	req = testutil.WithChiURLParam(req, "userID", u.ID)
	rec = testutil.NewRecorder()
	h.HandleRemoveMember(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	got, _ = h.Repo.GroupByID(g.ID)
	if got.HasMember(u.ID) {
		t.Error("member not removed")
	}
}

func TestHandleAddMemberUnknownUser(t *testing.T) {
	h, f := newHandler(t)
	g := f.CreateGroup(context.Background(), "Cohort A")

	req := testutil.NewJSONRequest(t, http.MethodPost, "/"+g.ID+"/members", map[string]string{"user_id": "missing"})
	req = testutil.WithChiURLParam(req, "id", g.ID)
	rec := testutil.NewRecorder()
	h.HandleAddMember(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
}
