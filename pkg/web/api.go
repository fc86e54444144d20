package web

import (
	"context"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gridcrew/mapathon/pkg/backend"
	"github.com/gridcrew/mapathon/pkg/formation"
	"github.com/gridcrew/mapathon/pkg/progress"
	"github.com/gridcrew/mapathon/pkg/proto"
)

// APIController registers the JSON API routes on r.
func APIController(_ context.Context, r *mux.Router) {
	// Sessions
	r.HandleFunc("/sessions", listSessions).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{session}", putSession).Methods(http.MethodPut)
	r.HandleFunc("/sessions/{session}", getSession).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{session}/participants", postParticipant).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{session}/participants", listParticipants).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{session}/readiness", getReadinessReport).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{session}/teams", postTeams).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{session}/teams", listTeams).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{session}/territories", postTerritories).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{session}/territories", listTerritories).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{session}/progress", getProgress).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{session}/verify", getVerify).Methods(http.MethodGet)

	// Teams and participants
	r.HandleFunc("/teams/{team:[0-9]+}", getTeam).Methods(http.MethodGet)
	r.HandleFunc("/teams/{team:[0-9]+}/move", postTeamMove).Methods(http.MethodPost)
	r.HandleFunc("/participants/{participant}/move", postParticipantMove).Methods(http.MethodPost)

	// Assignments
	r.HandleFunc("/assignments/{assignment:[0-9]+}", getAssignment).Methods(http.MethodGet)
	r.HandleFunc("/assignments/{assignment:[0-9]+}", patchAssignment).Methods(http.MethodPatch)
	r.HandleFunc("/assignments/{assignment:[0-9]+}/reassign", postReassign).Methods(http.MethodPost)

	// Catalog
	r.HandleFunc("/regions", listRegions).Methods(http.MethodGet)
	r.HandleFunc("/regions/import", postRegionsImport).Methods(http.MethodPost)
	r.HandleFunc("/regions/{region:[0-9]+}", getRegion).Methods(http.MethodGet)
	r.HandleFunc("/regions/{region:[0-9]+}", patchRegion).Methods(http.MethodPatch)
}

type sessionRequest struct {
	Name string `json:"name"`
}

type sessionResponse struct {
	Session proto.Session `json:"session"`
	Created bool          `json:"created"`
}

func putSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	s, created, err := be.EnsureSession(r.Context(), mux.Vars(r)["session"], req.Name)
	if err != nil {
		renderError(w, r, err)
		return
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	renderJSON(w, code, sessionResponse{Session: s, Created: created})
}

func getSession(w http.ResponseWriter, r *http.Request) {
	s, err := backend.FromContext(r.Context()).GetSession(r.Context(), mux.Vars(r)["session"])
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, s)
}

func listSessions(w http.ResponseWriter, r *http.Request) {
	ss, err := backend.FromContext(r.Context()).ListSessions(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, ss)
}

type participantRequest struct {
	Name   string `json:"name"`
	Handle string `json:"handle"`
}

func postParticipant(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	p, err := backend.FromContext(r.Context()).RegisterParticipant(r.Context(), mux.Vars(r)["session"], req.Name, req.Handle)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusCreated, p)
}

func listParticipants(w http.ResponseWriter, r *http.Request) {
	ps, err := backend.FromContext(r.Context()).ListParticipants(r.Context(), mux.Vars(r)["session"])
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, ps)
}

func getReadinessReport(w http.ResponseWriter, r *http.Request) {
	be := backend.FromContext(r.Context())
	size, err := intQuery(r, "team_size", be.DefaultTeamSize())
	if err != nil {
		renderError(w, r, err)
		return
	}

	rd, err := be.FormationReadiness(r.Context(), mux.Vars(r)["session"], size)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, rd)
}

type formTeamsRequest struct {
	TeamSize int `json:"team_size"`
	// Seed fixes the shuffle when set.
	Seed *int64 `json:"seed"`
}

func postTeams(w http.ResponseWriter, r *http.Request) {
	var req formTeamsRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	if req.TeamSize == 0 {
		req.TeamSize = be.DefaultTeamSize()
	}
	var rng *rand.Rand
	if req.Seed != nil {
		rng = formation.NewRand(*req.Seed)
	}

	f, err := be.FormTeams(r.Context(), mux.Vars(r)["session"], req.TeamSize, rng)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusCreated, f)
}

func listTeams(w http.ResponseWriter, r *http.Request) {
	ts, err := backend.FromContext(r.Context()).ListTeams(r.Context(), mux.Vars(r)["session"])
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, ts)
}

func postTerritories(w http.ResponseWriter, r *http.Request) {
	d, err := backend.FromContext(r.Context()).DistributeTerritories(r.Context(), mux.Vars(r)["session"])
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusCreated, d)
}

func listTerritories(w http.ResponseWriter, r *http.Request) {
	as, err := backend.FromContext(r.Context()).ListAssignments(r.Context(), mux.Vars(r)["session"])
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, as)
}

func getProgress(w http.ResponseWriter, r *http.Request) {
	p, err := backend.FromContext(r.Context()).GetProgress(r.Context(), mux.Vars(r)["session"])
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, p)
}

type verifyResponse struct {
	Isolation    proto.IsolationReport    `json:"isolation"`
	Distribution proto.DistributionReport `json:"distribution"`
}

func getVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)
	session := mux.Vars(r)["session"]

	iso, err := be.VerifyIsolation(ctx, session)
	if err != nil {
		renderError(w, r, err)
		return
	}
	dist, err := be.VerifyDistribution(ctx, session)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, verifyResponse{Isolation: iso, Distribution: dist})
}

type teamResponse struct {
	Team     proto.Team      `json:"team"`
	Progress progress.Detail `json:"progress"`
}

func getTeam(w http.ResponseWriter, r *http.Request) {
	id, err := int64Var(r, "team")
	if err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	t, err := be.GetTeam(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	d, err := be.TeamDetail(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, teamResponse{Team: t, Progress: d})
}

type moveRequest struct {
	TeamID int64 `json:"team_id"`
}

func (m moveRequest) validate() error {
	if m.TeamID <= 0 {
		return &proto.ValidationError{Field: "team_id", Value: m.TeamID, Reason: "must be a positive integer"}
	}
	return nil
}

type movedResponse struct {
	From  int64 `json:"from"`
	To    int64 `json:"to"`
	Moved int   `json:"moved"`
}

func postTeamMove(w http.ResponseWriter, r *http.Request) {
	from, err := int64Var(r, "team")
	if err != nil {
		renderError(w, r, err)
		return
	}
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		renderError(w, r, err)
		return
	}

	n, err := backend.FromContext(r.Context()).MoveTeamMembers(r.Context(), from, req.TeamID)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, movedResponse{From: from, To: req.TeamID, Moved: n})
}

func postParticipantMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		renderError(w, r, err)
		return
	}

	t, err := backend.FromContext(r.Context()).MoveParticipant(r.Context(), mux.Vars(r)["participant"], req.TeamID)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, t)
}

func getAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := int64Var(r, "assignment")
	if err != nil {
		renderError(w, r, err)
		return
	}

	a, err := backend.FromContext(r.Context()).GetAssignment(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, a)
}

type statusRequest struct {
	Status        string  `json:"status"`
	ParticipantID string  `json:"participant_id"`
	Notes         *string `json:"notes"`
}

func patchAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := int64Var(r, "assignment")
	if err != nil {
		renderError(w, r, err)
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	a, err := backend.FromContext(r.Context()).SetAssignmentStatus(r.Context(), id, req.Status, req.ParticipantID, req.Notes)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, a)
}

func postReassign(w http.ResponseWriter, r *http.Request) {
	id, err := int64Var(r, "assignment")
	if err != nil {
		renderError(w, r, err)
		return
	}
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		renderError(w, r, err)
		return
	}

	a, err := backend.FromContext(r.Context()).ReassignTerritory(r.Context(), id, req.TeamID)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, a)
}

func listRegions(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if v := r.URL.Query().Get("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			renderError(w, r, &proto.ValidationError{Field: "active", Value: v, Reason: "must be a boolean"})
			return
		}
		activeOnly = b
	}

	rs, err := backend.FromContext(r.Context()).ListRegions(r.Context(), activeOnly)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, rs)
}

func getRegion(w http.ResponseWriter, r *http.Request) {
	id, err := int64Var(r, "region")
	if err != nil {
		renderError(w, r, err)
		return
	}

	rg, err := backend.FromContext(r.Context()).GetRegion(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, rg)
}

type regionPatch struct {
	Active *bool `json:"active"`
}

func patchRegion(w http.ResponseWriter, r *http.Request) {
	id, err := int64Var(r, "region")
	if err != nil {
		renderError(w, r, err)
		return
	}
	var req regionPatch
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err)
		return
	}
	if req.Active == nil {
		renderError(w, r, &proto.ValidationError{Field: "active", Value: nil, Reason: "is required"})
		return
	}

	rg, err := backend.FromContext(r.Context()).SetRegionActive(r.Context(), id, *req.Active)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, rg)
}

type importRequest struct {
	Regions []proto.Region `json:"regions"`
}

func postRegionsImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	res, err := backend.FromContext(r.Context()).ImportRegions(r.Context(), req.Regions)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, res)
}
