package media

import "testing"

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  Record
		wantErr bool
	}{
		{"valid movie", Record{Title: "Heat", Year: "1995", Kind: KindMovie}, false},
		{"valid show no year", Record{Title: "The Wire", Kind: KindShow}, false},
		{"missing title", Record{Kind: KindMovie}, true},
		{"blank title", Record{Title: "   ", Kind: KindMovie}, true},
		{"invalid kind", Record{Title: "Heat", Kind: Kind("album")}, true},
		{"empty kind", Record{Title: "Heat"}, true},
		{"short year", Record{Title: "Heat", Year: "95", Kind: KindMovie}, true},
		{"non-numeric year", Record{Title: "Heat", Year: "199x", Kind: KindMovie}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecordID(t *testing.T) {
	rec := Record{Title: "Heat", Kind: KindMovie}
	if _, ok := rec.ID(NamespaceIMDb); ok {
		t.Fatal("expected no id on fresh record")
	}

	rec.SetIdentifier(NamespaceIMDb, "tt0113277")
	rec.SetIdentifier(NamespaceTMDb, "")
	rec.SetIdentifier(NamespaceTVDB, "  ")

	id, ok := rec.ID(NamespaceIMDb)
	if !ok || id != "tt0113277" {
		t.Fatalf("ID(imdb) = %q, %v", id, ok)
	}
	if _, ok := rec.ID(NamespaceTMDb); ok {
		t.Fatal("empty identifier should not be stored")
	}
	if _, ok := rec.ID(NamespaceTVDB); ok {
		t.Fatal("blank identifier should not be stored")
	}
}

func TestNamespacePriorityOrder(t *testing.T) {
	want := []Namespace{NamespaceIMDb, NamespaceTMDb, NamespaceTVDB}
	if len(NamespacePriority) != len(want) {
		t.Fatalf("priority length = %d, want %d", len(NamespacePriority), len(want))
	}
	for i, ns := range want {
		if NamespacePriority[i] != ns {
			t.Fatalf("priority[%d] = %s, want %s", i, NamespacePriority[i], ns)
		}
	}
}

func TestKindValid(t *testing.T) {
	if !KindMovie.Valid() || !KindShow.Valid() {
		t.Fatal("expected movie and show to be valid kinds")
	}
	if Kind("music").Valid() || Kind("").Valid() {
		t.Fatal("unexpected kind reported valid")
	}
}
