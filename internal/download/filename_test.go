package download_test

import (
	"os"
	"path/filepath"
	"testing"

	"einsync/internal/catalog"
	"einsync/internal/download"
)

func TestFilename(t *testing.T) {
	cases := []struct {
		name   string
		bundle catalog.LinkBundle
		want   string
	}{
		{
			name:   "title year partition",
			bundle: catalog.LinkBundle{Title: "Vikram", Year: "2022", Partition: "tamil"},
			want:   "Vikram.2022.Tamil.WEB-DL.EINTHUSAN.mp4",
		},
		{
			name:   "year omitted when unknown",
			bundle: catalog.LinkBundle{Title: "Vikram", Partition: "hindi"},
			want:   "Vikram.Hindi.WEB-DL.EINTHUSAN.mp4",
		},
		{
			name:   "punctuation stripped and spaces dotted",
			bundle: catalog.LinkBundle{Title: "K.G.F: Chapter 2", Year: "2022", Partition: "kannada"},
			want:   "KGF.Chapter.2.2022.Kannada.WEB-DL.EINTHUSAN.mp4",
		},
		{
			name:   "hyphen preserved",
			bundle: catalog.LinkBundle{Title: "Anbe-Sivam", Year: "2003", Partition: "tamil"},
			want:   "Anbe-Sivam.2003.Tamil.WEB-DL.EINTHUSAN.mp4",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := download.Filename(tc.bundle); got != tc.want {
				t.Errorf("Filename = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFilenameDeterministic(t *testing.T) {
	bundle := catalog.LinkBundle{Title: "Soorarai Pottru", Year: "2020", Partition: "tamil"}
	if download.Filename(bundle) != download.Filename(bundle) {
		t.Fatal("Filename must be a pure function of the bundle")
	}
}

func TestFindExisting(t *testing.T) {
	dir := t.TempDir()
	name := "Vikram.2022.Tamil.WEB-DL.EINTHUSAN.mp4"
	if err := os.WriteFile(filepath.Join(dir, name), []byte("media"), 0o644); err != nil {
		t.Fatal(err)
	}

	path, ok, err := download.FindExisting(dir, "Vikram", 2022)
	if err != nil {
		t.Fatalf("FindExisting returned error: %v", err)
	}
	if !ok || filepath.Base(path) != name {
		t.Fatalf("FindExisting = %q, %v", path, ok)
	}

	// A different partition or tier still matches the same title and year.
	if _, ok, _ := download.FindExisting(dir, "Vikram", 2021); ok {
		t.Error("year mismatch should not match")
	}
	if _, ok, _ := download.FindExisting(dir, "Valimai", 2022); ok {
		t.Error("different title should not match")
	}
}
