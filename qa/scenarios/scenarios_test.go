package scenarios

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kilianp07/sessionplan/core/model"
)

func TestScenario(t *testing.T) {
	files, err := filepath.Glob("testdata/*.yaml")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no scenarios found")
	}
	for _, f := range files {
		sc, err := Load(f)
		if err != nil {
			t.Fatalf("load %s: %v", f, err)
		}
		t.Run(sc.Name, func(t *testing.T) {
			RunScenario(t, sc)
		})
	}
}

func TestLoadInvalid(t *testing.T) {
	if _, err := Load("no-file.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
	tmp, err := os.CreateTemp(t.TempDir(), "bad*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmp.WriteString(":"); err != nil {
		t.Fatal(err)
	}
	if err := tmp.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(tmp.Name()); err == nil {
		t.Fatal("expected unmarshal error")
	}
}

func TestLoadRequiresName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anon.yaml")
	if err := os.WriteFile(path, []byte("request: {required_hours: 3}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected missing name error")
	}
}

func TestSupport(t *testing.T) {
	c := model.Candidate{Slots: []model.SlotAssignment{{Label: "HO1", Name: "x"}, {Label: "HO2", Name: "y"}}}
	if got := support(c); !equal(got, []string{"x", "y"}) {
		t.Fatalf("unexpected slot support %v", got)
	}
	c = model.Candidate{Group: []string{"bob"}}
	if got := support(c); !equal(got, []string{"bob"}) {
		t.Fatalf("unexpected group support %v", got)
	}
}
