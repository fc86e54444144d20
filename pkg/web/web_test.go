package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gridcrew/mapathon/pkg/backend"
	"github.com/gridcrew/mapathon/pkg/config"
	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/db/migrate"
	"github.com/gridcrew/mapathon/pkg/progress"
	"github.com/gridcrew/mapathon/pkg/proto"
	"github.com/gridcrew/mapathon/pkg/store/database"
	"github.com/gridcrew/mapathon/pkg/test"
	"github.com/matryer/is"
)

func setup(t *testing.T) *httptest.Server {
	t.Helper()
	is := is.New(t)
	ctx := log.WithContext(context.TODO(), log.New(io.Discard))
	dbx, err := test.OpenSqlite(ctx, t)
	is.NoErr(err)
	is.NoErr(migrate.Migrate(ctx, dbx))

	cfg := config.DefaultConfig()
	ctx = config.WithContext(ctx, cfg)
	ctx = db.WithContext(ctx, dbx)
	ctx = backend.WithContext(ctx, backend.New(ctx, cfg, dbx, database.New(ctx, dbx)))

	srv := httptest.NewServer(NewRouter(ctx))
	t.Cleanup(srv.Close)
	return srv
}

// call sends body as JSON and decodes the response into out when it is not
// nil. It returns the status code.
func call(t *testing.T, srv *httptest.Server, method, path string, body, out interface{}) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		bts, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(bts)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close() // nolint: errcheck
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return res.StatusCode
}

func TestHealth(t *testing.T) {
	is := is.New(t)
	srv := setup(t)

	is.Equal(call(t, srv, http.MethodGet, "/livez", nil, nil), http.StatusOK)
	is.Equal(call(t, srv, http.MethodGet, "/readyz", nil, nil), http.StatusOK)

	var e errorResponse
	is.Equal(call(t, srv, http.MethodGet, "/nope", nil, &e), http.StatusNotFound)
	is.Equal(e.Error, "not_found")
}

func TestSessionFlow(t *testing.T) {
	is := is.New(t)
	srv := setup(t)

	var sr sessionResponse
	is.Equal(call(t, srv, http.MethodPut, "/api/sessions/spring", sessionRequest{Name: "Spring"}, &sr), http.StatusCreated)
	is.True(sr.Created)
	is.Equal(sr.Session.Name, "Spring")
	is.Equal(call(t, srv, http.MethodPut, "/api/sessions/spring", nil, &sr), http.StatusOK)
	is.True(!sr.Created)

	participants := make([]proto.Participant, 0, 7)
	for i := 0; i < 7; i++ {
		var p proto.Participant
		code := call(t, srv, http.MethodPost, "/api/sessions/spring/participants", participantRequest{
			Name:   fmt.Sprintf("Mapper %d", i),
			Handle: fmt.Sprintf("mapper%d", i),
		}, &p)
		is.Equal(code, http.StatusCreated)
		participants = append(participants, p)
	}

	var rd backend.Readiness
	is.Equal(call(t, srv, http.MethodGet, "/api/sessions/spring/readiness?team_size=3", nil, &rd), http.StatusOK)
	is.True(rd.Ready)
	is.Equal(rd.Teams, 3)

	seed := int64(42)
	var f proto.Formation
	is.Equal(call(t, srv, http.MethodPost, "/api/sessions/spring/teams", formTeamsRequest{TeamSize: 3, Seed: &seed}, &f), http.StatusCreated)
	is.Equal(f.TeamsCreated, 3)

	var e errorResponse
	is.Equal(call(t, srv, http.MethodPost, "/api/sessions/spring/teams", formTeamsRequest{TeamSize: 3}, &e), http.StatusConflict)
	is.Equal(e.Error, "precondition")

	regions := make([]proto.Region, 0, 5)
	for i := 0; i < 5; i++ {
		regions = append(regions, proto.Region{Name: fmt.Sprintf("R%d", i), Code: fmt.Sprintf("C%d", i), Active: true})
	}
	var ir backend.ImportResult
	is.Equal(call(t, srv, http.MethodPost, "/api/regions/import", importRequest{Regions: regions}, &ir), http.StatusOK)
	is.Equal(ir.Inserted, 5)

	var d proto.Distribution
	is.Equal(call(t, srv, http.MethodPost, "/api/sessions/spring/territories", nil, &d), http.StatusCreated)
	is.Equal(d.RegionsDistributed, 5)

	var as []proto.Assignment
	is.Equal(call(t, srv, http.MethodGet, "/api/sessions/spring/territories", nil, &as), http.StatusOK)
	is.Equal(len(as), 5)

	var a proto.Assignment
	path := fmt.Sprintf("/api/assignments/%d", as[0].ID)
	is.Equal(call(t, srv, http.MethodPatch, path, statusRequest{Status: "completed", ParticipantID: participants[0].ID}, &a), http.StatusOK)
	is.Equal(a.Status, proto.StatusCompleted)
	is.Equal(a.CompletedBy, participants[0].ID)

	is.Equal(call(t, srv, http.MethodPatch, path, statusRequest{Status: "finished"}, &e), http.StatusBadRequest)
	is.Equal(e.Error, "validation")

	var p progress.Progress
	is.Equal(call(t, srv, http.MethodGet, "/api/sessions/spring/progress", nil, &p), http.StatusOK)
	is.Equal(p.Overall.Completed, 1)
	is.Equal(p.Overall.Percent, 20.0)
	is.Equal(len(p.Leaderboard), 3)

	var tr teamResponse
	is.Equal(call(t, srv, http.MethodGet, fmt.Sprintf("/api/teams/%d", a.TeamID), nil, &tr), http.StatusOK)
	is.Equal(tr.Team.ID, a.TeamID)
	is.Equal(len(tr.Progress.Completed), 1)

	var vr verifyResponse
	is.Equal(call(t, srv, http.MethodGet, "/api/sessions/spring/verify", nil, &vr), http.StatusOK)
	is.Equal(vr.Isolation.ViolationsFound, 0)
	is.Equal(vr.Distribution.Duplicates, 0)
	is.Equal(vr.Distribution.Orphans, 0)
}

func TestErrorMapping(t *testing.T) {
	is := is.New(t)
	srv := setup(t)

	var e errorResponse
	is.Equal(call(t, srv, http.MethodGet, "/api/sessions/missing", nil, &e), http.StatusNotFound)
	is.Equal(e.Error, "not_found")

	is.Equal(call(t, srv, http.MethodPut, "/api/sessions/%20padded", nil, &e), http.StatusBadRequest)
	is.Equal(e.Error, "validation")

	is.Equal(call(t, srv, http.MethodPost, "/api/sessions/missing/teams", formTeamsRequest{TeamSize: 3}, &e), http.StatusNotFound)

	// Session X participant moved into a session Y team.
	is.Equal(call(t, srv, http.MethodPut, "/api/sessions/x", nil, nil), http.StatusCreated)
	is.Equal(call(t, srv, http.MethodPut, "/api/sessions/y", nil, nil), http.StatusCreated)
	var px proto.Participant
	is.Equal(call(t, srv, http.MethodPost, "/api/sessions/x/participants", participantRequest{Name: "Ann", Handle: "ann"}, &px), http.StatusCreated)
	is.Equal(call(t, srv, http.MethodPost, "/api/sessions/y/participants", participantRequest{Name: "Bo", Handle: "bo"}, nil), http.StatusCreated)
	is.Equal(call(t, srv, http.MethodPost, "/api/sessions/x/teams", formTeamsRequest{TeamSize: 3}, nil), http.StatusCreated)
	var fy proto.Formation
	is.Equal(call(t, srv, http.MethodPost, "/api/sessions/y/teams", formTeamsRequest{TeamSize: 3}, &fy), http.StatusCreated)

	path := fmt.Sprintf("/api/participants/%s/move", px.ID)
	is.Equal(call(t, srv, http.MethodPost, path, moveRequest{TeamID: fy.Teams[0].ID}, &e), http.StatusForbidden)
	is.Equal(e.Error, "isolation")

	is.Equal(call(t, srv, http.MethodPost, path, moveRequest{}, &e), http.StatusBadRequest)
	is.Equal(call(t, srv, http.MethodDelete, "/api/sessions/x", nil, nil), http.StatusMethodNotAllowed)
}
