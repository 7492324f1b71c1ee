package service

import (
	"sort"
	"strings"

	"fileshare/internal/model"
)

type SortKey string

const (
	SortByName SortKey = "name"
	SortByDate SortKey = "date"
	SortBySize SortKey = "size"
)

type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// ParseSortKey maps a raw query value to a sort key, falling back to
// date ordering for anything unknown.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByName, SortByDate, SortBySize:
		return SortKey(s)
	default:
		return SortByDate
	}
}

func ValidSortKey(s string) bool {
	switch SortKey(s) {
	case SortByName, SortByDate, SortBySize:
		return true
	}
	return false
}

func ValidViewMode(s string) bool {
	switch ViewMode(s) {
	case ViewGrid, ViewList:
		return true
	}
	return false
}

// SortFiles returns a sorted copy of files. The sort is stable: records
// equal under the key keep their prior relative order. Name sorts
// lexicographically ascending, date by creation time descending, size
// by byte count descending.
func SortFiles(files []model.FileRecord, key SortKey) []model.FileRecord {
	sorted := make([]model.FileRecord, len(files))
	copy(sorted, files)

	switch key {
	case SortByName:
		sort.SliceStable(sorted, func(i, j int) bool {
			return strings.Compare(sorted[i].Name, sorted[j].Name) < 0
		})
	case SortBySize:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Size > sorted[j].Size
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		})
	}

	return sorted
}
