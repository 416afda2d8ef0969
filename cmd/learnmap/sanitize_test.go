package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mohammad-safakhou/learnmap/models"
)

const storedResponse = `{"nodes":[{"id":"1","title":"Kiln Basics","level":"beginner","summary":"<i>Firing</i>","resources":[
  {"type":"article","title":"Kiln course","url":"https://www.udemy.com/kiln"},
  {"type":"video","title":"Loading a kiln","url":"https://ceramics.example.org/loading"}
]}]}`

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := rootCMD()
	var out bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSanitizeFromStdin(t *testing.T) {
	out, err := runCLI(t, storedResponse, "sanitize", "--topic", "Pottery", "--skip-reachability")
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	var m models.LearningMap
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if m.Topic != "Pottery" || m.TargetLevel != models.LevelBeginner {
		t.Fatalf("unexpected header: %+v", m)
	}
	if len(m.Nodes) != 1 || m.Nodes[0].Summary != "<i>Firing</i>" {
		t.Fatalf("unexpected nodes: %+v", m.Nodes)
	}
	res := m.Nodes[0].Resources
	if len(res) != 1 || res[0].URL != "https://ceramics.example.org/loading" {
		t.Fatalf("expected only the unblocked link, got %+v", res)
	}
}

func TestSanitizeFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "response.json")
	if err := os.WriteFile(path, []byte(storedResponse), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := runCLI(t, "", "sanitize", path, "--topic", "Pottery", "--level", "advanced", "--skip-reachability")
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if !strings.Contains(out, `"targetLevel": "advanced"`) {
		t.Fatalf("expected requested level in output: %s", out)
	}
}

func TestSanitizeRequiresTopic(t *testing.T) {
	if _, err := runCLI(t, storedResponse, "sanitize", "--skip-reachability"); err == nil {
		t.Fatalf("expected error without --topic")
	}
}

func TestSanitizeRejectsInvalidJSON(t *testing.T) {
	if _, err := runCLI(t, "not json", "sanitize", "--topic", "Pottery", "--skip-reachability"); err == nil {
		t.Fatalf("expected error for invalid JSON input")
	}
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Fatalf("unexpected version output %q", out)
	}
}
