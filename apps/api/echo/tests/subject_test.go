package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/subject"
	testutil "github.com/trezcool/academia/tests"
)

func createSubjectPayload(name string, sched []subject.ScheduleEntry) map[string]interface{} {
	return map[string]interface{}{
		"name":            name,
		"assignedTeacher": "Mr. Ilunga",
		"color":           "#FF8800",
		"schedule":        sched,
	}
}

func Test_subjectAPI_create(t *testing.T) {
	std := testutil.CreateStudent(t, stdRepo, "Subject Owner", "subject.owner@test.cd", "LeT@2021!go", student.RoleStudent, true)
	token := getToken(t, std)

	t.Run("requires token", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/subjects", marchallObj(t, createSubjectPayload("Maths", nil)))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("code = %v, want %v", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("ok", func(t *testing.T) {
		sched := []subject.ScheduleEntry{
			{Day: "Monday", Start: "08:00", End: "10:00"},
			{Day: "Wednesday", Start: "08:00", End: "10:00"},
		}
		req, rec := newAuthRequest(http.MethodPost, "/v1/subjects", token, marchallObj(t, createSubjectPayload("Maths", sched)))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var sub subject.Subject
		if err := json.Unmarshal(rec.Body.Bytes(), &sub); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if sub.OwnerID != std.ID {
			t.Errorf("OwnerID = %q, want %q", sub.OwnerID, std.ID)
		}
		if len(sub.Schedule) != 2 {
			t.Errorf("Schedule = %+v", sub.Schedule)
		}
	})

	t.Run("overlapping schedule is rejected", func(t *testing.T) {
		sched := []subject.ScheduleEntry{
			{Day: "Monday", Start: "08:00", End: "10:00"},
			{Day: "Monday", Start: "09:00", End: "11:00"},
		}
		req, rec := newAuthRequest(http.MethodPost, "/v1/subjects", token, marchallObj(t, createSubjectPayload("Physique", sched)))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var res map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if _, ok := res["schedule"]; !ok {
			t.Errorf("missing schedule error in %v", res)
		}
	})

	t.Run("bad time format is rejected", func(t *testing.T) {
		sched := []subject.ScheduleEntry{{Day: "Monday", Start: "8:00", End: "10:00"}}
		req, rec := newAuthRequest(http.MethodPost, "/v1/subjects", token, marchallObj(t, createSubjectPayload("Chimie", sched)))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; body %s", rec.Code, rec.Body.String())
		}
	})
}

func Test_subjectAPI_ownership(t *testing.T) {
	owner := testutil.CreateStudent(t, stdRepo, "Owner A", "owner.a@test.cd", "LeT@2021!go", student.RoleStudent, true)
	other := testutil.CreateStudent(t, stdRepo, "Owner B", "owner.b@test.cd", "LeT@2021!go", student.RoleStudent, true)
	admin := testutil.CreateStudent(t, stdRepo, "Admin C", "admin.c@test.cd", "LeT@2021!go", student.RoleAdmin, true)

	sub := testutil.CreateSubject(t, subRepo, owner.ID, "Geographie", nil)

	t.Run("owner retrieves own subject", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/subjects/"+sub.ID, getToken(t, owner))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("code = %v; body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("foreign subject reads as 404", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/subjects/"+sub.ID, getToken(t, other))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %v, want %v", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("admin can read any subject", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/subjects/"+sub.ID, getToken(t, admin))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("code = %v; body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("list is scoped to the caller", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/subjects", getToken(t, other))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var subs []subject.Subject
		if err := json.Unmarshal(rec.Body.Bytes(), &subs); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		for _, s := range subs {
			if s.OwnerID != other.ID {
				t.Errorf("leaked subject of owner %q", s.OwnerID)
			}
		}
	})

	t.Run("owner cannot be reassigned", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"studentId": other.ID})
		req, rec := newAuthRequest(http.MethodPut, "/v1/subjects/"+sub.ID, getToken(t, owner), body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("owner deletes subject", func(t *testing.T) {
		victim := testutil.CreateSubject(t, subRepo, owner.ID, "Informatique", nil)

		req, rec := newAuthRequest(http.MethodDelete, "/v1/subjects/"+victim.ID, getToken(t, owner))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/subjects/"+victim.ID, getToken(t, owner))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %v, want %v", rec.Code, http.StatusNotFound)
		}
	})
}
