package savefile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// saveFixture is formatted the way the serializer writes, so loading
// and serializing it without edits is byte-identical.
const saveFixture = `<?xml version="1.0" encoding="utf-8" ?>` + "\n" +
	`<savegame><game><world><ideoManager><ideos>` +
	`<li><name>Transhumanist</name><precepts>` +
	`<li><name>Nudity_Prude</name><def>defA</def></li>` +
	`<li><name>Cannibalism_Acceptable</name><def>defC</def></li>` +
	`</precepts></li>` +
	`</ideos></ideoManager></world></game></savegame>`

func writeFixture(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "save.rws")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.rws"))
	if err == nil {
		t.Fatal("Load() on a missing file did not fail")
	}
}

func TestLoad_NotXML(t *testing.T) {
	path := writeFixture(t, "this is not a save file")
	if _, err := Load(path); err == nil {
		t.Fatal("Load() on non-XML contents did not fail")
	}
}

func TestLoad_Success(t *testing.T) {
	path := writeFixture(t, saveFixture)
	document, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !bytes.Equal(document.Original(), []byte(saveFixture)) {
		t.Error("Original() does not match the bytes on disk")
	}
}

func TestIdeologies(t *testing.T) {
	testCases := []struct {
		name     string
		contents string
		wantErr  error
	}{
		{"resolves_fixed_path", saveFixture, nil},
		{"foreign_document", `<other><game/></other>`, ErrNoIdeologies},
		{"truncated_path", `<savegame><game><world/></game></savegame>`, ErrNoIdeologies},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFixture(t, tc.contents)
			document, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			ideos, err := Ideologies(document)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Ideologies() error = %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr == nil && ideos == nil {
				t.Error("Ideologies() = nil without error")
			}
		})
	}
}

func TestIdeologyEntriesAndNames(t *testing.T) {
	path := writeFixture(t, saveFixture)
	document, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	ideos, err := Ideologies(document)
	if err != nil {
		t.Fatalf("Ideologies() error = %v", err)
	}

	entries := IdeologyEntries(ideos)
	if len(entries) != 1 {
		t.Fatalf("IdeologyEntries() = %d entries, want 1", len(entries))
	}
	if got := IdeologyName(entries[0]); got != "Transhumanist" {
		t.Errorf("IdeologyName() = %q, want Transhumanist", got)
	}

	precepts := Precepts(entries[0])
	if precepts == nil {
		t.Fatal("Precepts() = nil")
	}
	if got := len(PreceptEntries(precepts)); got != 2 {
		t.Errorf("PreceptEntries() = %d entries, want 2", got)
	}
}

func TestIdeologyName_Missing(t *testing.T) {
	path := writeFixture(t, `<savegame><game><world><ideoManager><ideos><li><precepts/></li></ideos></ideoManager></world></game></savegame>`)
	document, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	ideos, err := Ideologies(document)
	if err != nil {
		t.Fatalf("Ideologies() error = %v", err)
	}

	if got := IdeologyName(IdeologyEntries(ideos)[0]); got != "" {
		t.Errorf("IdeologyName() = %q, want empty string", got)
	}
}

func TestSerialize_InsertsMissingHeader(t *testing.T) {
	path := writeFixture(t, `<savegame><game><world><ideoManager><ideos/></ideoManager></world></game></savegame>`)
	document, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	out, err := document.Serialize()
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if !bytes.HasPrefix(out, []byte(Header+"\n")) {
		t.Errorf("Serialize() output does not start with the XML declaration: %q", out[:40])
	}
}

func TestChanged_UntouchedDocument(t *testing.T) {
	path := writeFixture(t, saveFixture)
	document, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	changed, out, err := document.Changed()
	if err != nil {
		t.Fatalf("Changed() error = %v", err)
	}
	if changed {
		t.Errorf("Changed() = true for an untouched document\noriginal: %q\nserialized: %q", saveFixture, out)
	}
}

func TestChanged_AfterRemoval(t *testing.T) {
	path := writeFixture(t, saveFixture)
	document, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	ideos, err := Ideologies(document)
	if err != nil {
		t.Fatalf("Ideologies() error = %v", err)
	}
	ideology := IdeologyEntries(ideos)[0]
	precepts := Precepts(ideology)
	entries := PreceptEntries(precepts)
	precepts.RemoveChild(entries[0])

	changed, out, err := document.Changed()
	if err != nil {
		t.Fatalf("Changed() error = %v", err)
	}
	if !changed {
		t.Error("Changed() = false after removing a precept")
	}
	if bytes.Contains(out, []byte("defA")) {
		t.Error("serialized output still contains the removed precept")
	}
}
