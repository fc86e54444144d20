// Package progress derives counts, percentages, and the leaderboard from
// territory assignment rows. Everything here is a pure function of its
// input.
package progress

import (
	"math"
	"sort"
	"time"

	"github.com/gridcrew/mapathon/pkg/proto"
)

// Team identifies a team taking part in the ranking.
type Team struct {
	ID    int64
	Name  string
	Index int
}

// Counts holds assignment counts by status.
type Counts struct {
	Available int     `json:"available"`
	Current   int     `json:"current"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

// Shares returns the percentage of each status, rounded to two decimals.
func (c Counts) Shares() map[proto.AssignmentStatus]float64 {
	return map[proto.AssignmentStatus]float64{
		proto.StatusAvailable: Percentage(c.Available, c.Total),
		proto.StatusCurrent:   Percentage(c.Current, c.Total),
		proto.StatusCompleted: Percentage(c.Completed, c.Total),
	}
}

func (c *Counts) add(s proto.AssignmentStatus) {
	switch s {
	case proto.StatusAvailable:
		c.Available++
	case proto.StatusCurrent:
		c.Current++
	case proto.StatusCompleted:
		c.Completed++
	}
	c.Total++
}

// TeamProgress is the progress of one team.
type TeamProgress struct {
	TeamID   int64  `json:"team_id"`
	TeamName string `json:"team_name"`
	Counts
}

// Entry is a leaderboard row.
type Entry struct {
	Rank int `json:"rank"`
	TeamProgress
}

// Progress is the progress view of a session.
type Progress struct {
	Session     string         `json:"session"`
	Overall     Counts         `json:"overall"`
	PerTeam     []TeamProgress `json:"per_team"`
	Leaderboard []Entry        `json:"leaderboard"`
	// Complete is true once every assignment of the session is completed.
	Complete bool `json:"complete"`
}

// Percentage returns part/total*100 rounded to two decimals, or 0 when total
// is 0.
func Percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}

// Summarize computes the session progress. Teams without assignments are
// included with zero counts. Rows pointing at teams not in teams still count
// toward the overall figures.
func Summarize(session string, teams []Team, rows []proto.Assignment) Progress {
	ordered := make([]Team, len(teams))
	copy(ordered, teams)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	byTeam := make(map[int64]*TeamProgress, len(ordered))
	perTeam := make([]TeamProgress, len(ordered))
	for i, t := range ordered {
		perTeam[i] = TeamProgress{TeamID: t.ID, TeamName: t.Name}
		byTeam[t.ID] = &perTeam[i]
	}

	var overall Counts
	for _, r := range rows {
		overall.add(r.Status)
		if tp, ok := byTeam[r.TeamID]; ok {
			tp.add(r.Status)
		}
	}

	overall.Percent = Percentage(overall.Completed, overall.Total)
	for i := range perTeam {
		perTeam[i].Percent = Percentage(perTeam[i].Completed, perTeam[i].Total)
	}

	return Progress{
		Session:     session,
		Overall:     overall,
		PerTeam:     perTeam,
		Leaderboard: Leaderboard(perTeam),
		Complete:    overall.Total > 0 && overall.Completed == overall.Total,
	}
}

// Leaderboard ranks teams by completion percentage descending, ties broken
// by team name ascending.
func Leaderboard(teams []TeamProgress) []Entry {
	entries := make([]Entry, len(teams))
	for i, t := range teams {
		entries[i] = Entry{TeamProgress: t}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Percent != entries[j].Percent {
			return entries[i].Percent > entries[j].Percent
		}
		return entries[i].TeamName < entries[j].TeamName
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Detail lists a team's assignments split by status.
type Detail struct {
	TeamID    int64              `json:"team_id"`
	TeamName  string             `json:"team_name"`
	Counts    Counts             `json:"counts"`
	Available []proto.Assignment `json:"available"`
	Current   []proto.Assignment `json:"current"`
	Completed []proto.Assignment `json:"completed"`
}

// TeamDetail builds the detail view of team from rows. Rows of other teams
// are ignored. Available assignments are ordered by region name, current by
// most recently started, completed by most recently completed.
func TeamDetail(team Team, rows []proto.Assignment) Detail {
	d := Detail{
		TeamID:    team.ID,
		TeamName:  team.Name,
		Available: []proto.Assignment{},
		Current:   []proto.Assignment{},
		Completed: []proto.Assignment{},
	}
	for _, r := range rows {
		if r.TeamID != team.ID {
			continue
		}
		d.Counts.add(r.Status)
		switch r.Status {
		case proto.StatusAvailable:
			d.Available = append(d.Available, r)
		case proto.StatusCurrent:
			d.Current = append(d.Current, r)
		case proto.StatusCompleted:
			d.Completed = append(d.Completed, r)
		}
	}
	d.Counts.Percent = Percentage(d.Counts.Completed, d.Counts.Total)

	sort.SliceStable(d.Available, func(i, j int) bool {
		return d.Available[i].RegionName < d.Available[j].RegionName
	})
	sort.SliceStable(d.Current, func(i, j int) bool {
		return newer(d.Current[i].StartedAt, d.Current[j].StartedAt, d.Current[i].RegionName, d.Current[j].RegionName)
	})
	sort.SliceStable(d.Completed, func(i, j int) bool {
		return newer(d.Completed[i].CompletedAt, d.Completed[j].CompletedAt, d.Completed[i].RegionName, d.Completed[j].RegionName)
	})

	return d
}

// newer orders by time descending with unset times last, then by name.
func newer(a, b *time.Time, an, bn string) bool {
	switch {
	case a != nil && b == nil:
		return true
	case a == nil && b != nil:
		return false
	case a != nil && b != nil && !a.Equal(*b):
		return a.After(*b)
	}
	return an < bn
}
