// Package export writes club data to an xlsx workbook, one sheet per
// collection.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/marcus/clubdash/internal/models"
)

// Member is a directory entry with the viewer's relationship to it.
type Member struct {
	models.User
	Relationship models.Relationship
}

// Data is everything that can be exported. Empty slices produce a sheet
// with only the header row.
type Data struct {
	Games       []models.Game
	Teams       []models.Team
	Tournaments []models.Tournament
	News        []models.News
	Members     []Member
	Friends     []models.Friend
}

type sheet struct {
	name   string
	header []interface{}
	rows   [][]interface{}
}

func sheets(d Data) []sheet {
	games := sheet{name: "Games", header: []interface{}{"ID", "Name", "Genre", "Description"}}
	for _, g := range d.Games {
		games.rows = append(games.rows, []interface{}{g.ID, g.Name, g.Genre, g.Description})
	}

	teams := sheet{name: "Teams", header: []interface{}{"ID", "Name", "Game ID", "Description"}}
	for _, t := range d.Teams {
		teams.rows = append(teams.rows, []interface{}{t.ID, t.Name, t.GameID, t.Description})
	}

	tournaments := sheet{name: "Tournaments", header: []interface{}{"ID", "Name", "Game ID", "Location", "Start", "End", "Prize Pool"}}
	for _, t := range d.Tournaments {
		tournaments.rows = append(tournaments.rows, []interface{}{t.ID, t.Name, t.GameID, t.Location, t.StartDate, t.EndDate, t.PrizePool})
	}

	news := sheet{name: "News", header: []interface{}{"ID", "Title", "Author", "Created"}}
	for _, n := range d.News {
		news.rows = append(news.rows, []interface{}{n.ID, n.Title, n.AuthorName, timestamp(n.CreatedAt)})
	}

	members := sheet{name: "Members", header: []interface{}{"ID", "First Name", "Last Name", "Email", "Relationship"}}
	for _, m := range d.Members {
		members.rows = append(members.rows, []interface{}{m.ID, m.FirstName, m.LastName, m.Email, string(m.Relationship)})
	}

	friends := sheet{name: "Friends", header: []interface{}{"User ID", "First Name", "Last Name", "Email", "Since"}}
	for _, f := range d.Friends {
		friends.rows = append(friends.rows, []interface{}{f.FriendID, f.FirstName, f.LastName, f.Email, timestamp(f.CreatedAt)})
	}

	return []sheet{games, teams, tournaments, news, members, friends}
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// Workbook builds the workbook in memory. The caller closes it.
func Workbook(d Data) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}

	all := sheets(d)
	for _, s := range all {
		if _, err := f.NewSheet(s.name); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s, bold); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", s.name, err)
		}
	}

	// NewFile starts with a default sheet we never fill.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, err
	}
	if idx, err := f.GetSheetIndex(all[0].name); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	if err := f.SetSheetRow(s.name, "A1", &s.header); err != nil {
		return err
	}
	if err := f.SetRowStyle(s.name, 1, 1, headerStyle); err != nil {
		return err
	}
	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return err
		}
	}
	last, err := excelize.ColumnNumberToName(len(s.header))
	if err != nil {
		return err
	}
	return f.SetColWidth(s.name, "A", last, 18)
}

// WriteFile builds the workbook and saves it to path.
func WriteFile(path string, d Data) error {
	f, err := Workbook(d)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
