package progress

import (
	"testing"
	"time"

	"github.com/gridcrew/mapathon/pkg/proto"
	"github.com/matryer/is"
)

func TestPercentage(t *testing.T) {
	is := is.New(t)
	is.Equal(Percentage(3, 4), 75.00)
	is.Equal(Percentage(0, 0), 0.0)
	is.Equal(Percentage(1, 3), 33.33)
	is.Equal(Percentage(2, 3), 66.67)
	is.Equal(Percentage(5, 5), 100.0)
}

func row(team int64, region string, st proto.AssignmentStatus) proto.Assignment {
	return proto.Assignment{TeamID: team, RegionName: region, Status: st}
}

func TestSummarize(t *testing.T) {
	is := is.New(t)
	teams := []Team{
		{ID: 2, Name: "Beta", Index: 1},
		{ID: 1, Name: "Alpha", Index: 0},
		{ID: 3, Name: "Gamma", Index: 2},
	}
	rows := []proto.Assignment{
		row(1, "A", proto.StatusCompleted),
		row(1, "B", proto.StatusCurrent),
		row(2, "C", proto.StatusCompleted),
		row(2, "D", proto.StatusCompleted),
		row(2, "E", proto.StatusAvailable),
		row(2, "F", proto.StatusCompleted),
	}
	p := Summarize("s", teams, rows)
	is.Equal(p.Overall, Counts{Available: 1, Current: 1, Completed: 4, Total: 6, Percent: 66.67})
	is.Equal(len(p.PerTeam), 3)
	is.Equal(p.PerTeam[0].TeamName, "Alpha") // index order
	is.Equal(p.PerTeam[1].Percent, 75.0)
	is.Equal(p.PerTeam[2].Total, 0)
	is.Equal(p.PerTeam[2].Percent, 0.0)
	is.True(!p.Complete)

	is.Equal(p.Leaderboard[0].TeamName, "Beta")
	is.Equal(p.Leaderboard[0].Rank, 1)
	is.Equal(p.Leaderboard[1].TeamName, "Alpha")
	is.Equal(p.Leaderboard[2].TeamName, "Gamma")
	is.Equal(p.Leaderboard[2].Rank, 3)
}

func TestLeaderboardTiesByName(t *testing.T) {
	is := is.New(t)
	lb := Leaderboard([]TeamProgress{
		{TeamName: "Gamma", Counts: Counts{Percent: 50}},
		{TeamName: "Alpha", Counts: Counts{Percent: 50}},
		{TeamName: "Beta", Counts: Counts{Percent: 80}},
	})
	is.Equal(lb[0].TeamName, "Beta")
	is.Equal(lb[1].TeamName, "Alpha")
	is.Equal(lb[2].TeamName, "Gamma")
	is.Equal([]int{lb[0].Rank, lb[1].Rank, lb[2].Rank}, []int{1, 2, 3})
}

func TestComplete(t *testing.T) {
	is := is.New(t)
	p := Summarize("s", []Team{{ID: 1, Name: "Alpha"}}, []proto.Assignment{row(1, "A", proto.StatusCompleted)})
	is.True(p.Complete)
	is.True(!Summarize("s", nil, nil).Complete)
}

func TestShares(t *testing.T) {
	is := is.New(t)
	c := Counts{Available: 1, Current: 1, Completed: 2, Total: 4}
	sh := c.Shares()
	is.Equal(sh[proto.StatusAvailable], 25.0)
	is.Equal(sh[proto.StatusCompleted], 50.0)
}

func TestTeamDetailOrdering(t *testing.T) {
	is := is.New(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	at := func(h int) *time.Time {
		ts := base.Add(time.Duration(h) * time.Hour)
		return &ts
	}
	rows := []proto.Assignment{
		{TeamID: 1, RegionName: "Zulu", Status: proto.StatusAvailable},
		{TeamID: 1, RegionName: "Alpha", Status: proto.StatusAvailable},
		{TeamID: 1, RegionName: "Early", Status: proto.StatusCurrent, StartedAt: at(1)},
		{TeamID: 1, RegionName: "Late", Status: proto.StatusCurrent, StartedAt: at(5)},
		{TeamID: 1, RegionName: "First", Status: proto.StatusCompleted, CompletedAt: at(2)},
		{TeamID: 1, RegionName: "Last", Status: proto.StatusCompleted, CompletedAt: at(9)},
		{TeamID: 2, RegionName: "Other", Status: proto.StatusCompleted, CompletedAt: at(10)},
	}
	d := TeamDetail(Team{ID: 1, Name: "Alpha"}, rows)
	is.Equal(d.Counts.Total, 6)
	is.Equal(d.Counts.Percent, 33.33)
	is.Equal(d.Available[0].RegionName, "Alpha")
	is.Equal(d.Available[1].RegionName, "Zulu")
	is.Equal(d.Current[0].RegionName, "Late")
	is.Equal(d.Completed[0].RegionName, "Last")
	is.Equal(d.Completed[1].RegionName, "First")
}

func TestSummarizeDoesNotMutateInput(t *testing.T) {
	is := is.New(t)
	teams := []Team{{ID: 2, Name: "Beta", Index: 1}, {ID: 1, Name: "Alpha", Index: 0}}
	rows := []proto.Assignment{row(2, "A", proto.StatusCompleted)}
	_ = Summarize("s", teams, rows)
	is.Equal(teams[0].Name, "Beta")
	is.Equal(rows[0].Status, proto.StatusCompleted)
}
