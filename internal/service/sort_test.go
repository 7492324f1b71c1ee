package service

import (
	"testing"
	"time"

	"fileshare/internal/model"
)

func testFiles() []model.FileRecord {
	base := time.Date(2023, 1, 10, 12, 0, 0, 0, time.UTC)
	return []model.FileRecord{
		{ID: "1", Name: "document.pdf", Size: 2500000, CreatedAt: base},
		{ID: "2", Name: "image.jpg", Size: 1500000, CreatedAt: base.AddDate(0, 0, 5)},
		{ID: "3", Name: "archive.zip", Size: 2500000, CreatedAt: base.AddDate(0, 0, 2)},
	}
}

func TestSortFilesByName(t *testing.T) {
	sorted := SortFiles(testFiles(), SortByName)

	want := []string{"archive.zip", "document.pdf", "image.jpg"}
	for i, name := range want {
		if sorted[i].Name != name {
			t.Errorf("sorted[%d].Name = %s, want %s", i, sorted[i].Name, name)
		}
	}

	// Sorting an already sorted listing again must not reorder it.
	again := SortFiles(sorted, SortByName)
	for i := range sorted {
		if again[i].ID != sorted[i].ID {
			t.Errorf("re-sort changed order at %d: %s vs %s", i, again[i].ID, sorted[i].ID)
		}
	}
}

func TestSortFilesBySizeDescendingAndStable(t *testing.T) {
	sorted := SortFiles(testFiles(), SortBySize)

	if sorted[0].Size < sorted[1].Size || sorted[1].Size < sorted[2].Size {
		t.Fatalf("sizes not descending: %d, %d, %d", sorted[0].Size, sorted[1].Size, sorted[2].Size)
	}
	// Records 1 and 3 tie on size; insertion order must survive.
	if sorted[0].ID != "1" || sorted[1].ID != "3" {
		t.Errorf("tie broke insertion order: got %s, %s", sorted[0].ID, sorted[1].ID)
	}
}

func TestSortFilesByDateDescending(t *testing.T) {
	sorted := SortFiles(testFiles(), SortByDate)

	if sorted[0].ID != "2" || sorted[1].ID != "3" || sorted[2].ID != "1" {
		t.Errorf("date order wrong: %s, %s, %s", sorted[0].ID, sorted[1].ID, sorted[2].ID)
	}
}

func TestSortFilesDoesNotMutateInput(t *testing.T) {
	files := testFiles()
	SortFiles(files, SortByName)

	if files[0].ID != "1" || files[1].ID != "2" || files[2].ID != "3" {
		t.Error("SortFiles mutated its input")
	}
}

func TestParseSortKeyFallsBackToDate(t *testing.T) {
	if got := ParseSortKey("alphabetical"); got != SortByDate {
		t.Errorf("ParseSortKey fallback = %s, want date", got)
	}
	if got := ParseSortKey("size"); got != SortBySize {
		t.Errorf("ParseSortKey(size) = %s", got)
	}
}
