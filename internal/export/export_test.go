package export

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/marcus/clubdash/internal/models"
)

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "club.xlsx")
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	err := WriteFile(path, Data{
		Games: []models.Game{{ID: 1, Name: "Chess", Genre: "Board"}},
		Members: []Member{
			{User: models.User{ID: 2, FirstName: "John", LastName: "Doe", Email: "jd@club.example"}, Relationship: models.RelationFriend},
			{User: models.User{ID: 3, FirstName: "Jane", LastName: "Roe"}, Relationship: models.RelationAddable},
		},
		Friends: []models.Friend{{FriendID: 2, FirstName: "John", LastName: "Doe", CreatedAt: created}},
	})
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	want := []string{"Games", "Teams", "Tournaments", "News", "Members", "Friends"}
	if got := f.GetSheetList(); !reflect.DeepEqual(got, want) {
		t.Errorf("sheets = %v, want %v", got, want)
	}

	rows, err := f.GetRows("Members")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("member rows = %d, want header + 2", len(rows))
	}
	if rows[0][4] != "Relationship" || rows[1][4] != "friend" || rows[2][4] != "addable" {
		t.Errorf("relationship column = %v", rows)
	}

	rows, _ = f.GetRows("Friends")
	if rows[1][4] != "2026-03-01T12:00:00Z" {
		t.Errorf("since = %q", rows[1][4])
	}

	rows, _ = f.GetRows("Teams")
	if len(rows) != 1 || rows[0][0] != "ID" {
		t.Errorf("empty sheet should only have a header, got %v", rows)
	}
}

func TestWorkbookNoDefaultSheet(t *testing.T) {
	f, err := Workbook(Data{})
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	defer f.Close()
	for _, name := range f.GetSheetList() {
		if name == "Sheet1" {
			t.Error("default sheet should be removed")
		}
	}
}
