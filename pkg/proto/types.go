package proto

import "time"

// Session is a mapping campaign.
type Session struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Status        SessionStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	TeamsFormedAt *time.Time    `json:"teams_formed_at,omitempty"`
}

// Participant is a registrant of a session.
type Participant struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Name      string    `json:"name"`
	Handle    string    `json:"handle"`
	CreatedAt time.Time `json:"created_at"`
}

// Member is a participant as seen through its team membership.
type Member struct {
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
	Handle        string `json:"handle"`
	Role          Role   `json:"role"`
	Position      int    `json:"position"`
}

// Team is a team with its members.
type Team struct {
	ID        int64    `json:"id"`
	SessionID string   `json:"session_id"`
	Name      string   `json:"name"`
	Index     int      `json:"index"`
	Members   []Member `json:"members"`
}

// Region is a catalog entry.
type Region struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Code           string `json:"code"`
	Classification string `json:"classification"`
	Active         bool   `json:"active"`
}

// Assignment is a snapshot of a territory assignment.
type Assignment struct {
	ID          int64            `json:"id"`
	SessionID   string           `json:"session_id"`
	TeamID      int64            `json:"team_id"`
	TeamName    string           `json:"team_name"`
	RegionID    int64            `json:"region_id"`
	RegionName  string           `json:"region_name"`
	RegionCode  string           `json:"region_code"`
	Status      AssignmentStatus `json:"status"`
	Notes       string           `json:"notes,omitempty"`
	AssignedAt  time.Time        `json:"assigned_at"`
	StartedAt   *time.Time       `json:"started_at,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	CompletedBy string           `json:"completed_by,omitempty"`
}

// Formation is the outcome of forming a session's teams.
type Formation struct {
	Session      string `json:"session"`
	TeamsCreated int    `json:"teams_created"`
	Teams        []Team `json:"teams"`
}

// TeamShare is the number of regions handed to one team.
type TeamShare struct {
	TeamID   int64  `json:"team_id"`
	TeamName string `json:"team_name"`
	Regions  int    `json:"regions"`
}

// Distribution is the outcome of distributing territories in a session.
type Distribution struct {
	Session            string      `json:"session"`
	TeamsCount         int         `json:"teams_count"`
	RegionsDistributed int         `json:"regions_distributed"`
	PerTeam            []TeamShare `json:"per_team"`
}

// IsolationReport is the result of an isolation check.
type IsolationReport struct {
	Session         string `json:"session"`
	ViolationsFound int    `json:"violations_found"`
}

// DistributionReport is the result of a distribution check.
type DistributionReport struct {
	Session    string `json:"session"`
	Duplicates int    `json:"duplicates"`
	Orphans    int    `json:"orphans"`
}
