package batch

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/lwostrut/pkg/lwo"
)

// makeLWO2 builds a small LWO2 file with one triangle.
func makeLWO2() []byte {
	chunk := func(tag string, payload []byte) []byte {
		var b bytes.Buffer
		b.WriteString(tag)
		binary.Write(&b, binary.BigEndian, uint32(len(payload)))
		b.Write(payload)
		if len(payload)%2 == 1 {
			b.WriteByte(0)
		}
		return b.Bytes()
	}

	var pnts bytes.Buffer
	for _, v := range []float32{0, 0, 0, 1, 0, 0, 0, 1, 0} {
		binary.Write(&pnts, binary.BigEndian, v)
	}
	var pols bytes.Buffer
	pols.WriteString("FACE")
	for _, v := range []uint16{3, 0, 1, 2} {
		binary.Write(&pols, binary.BigEndian, v)
	}

	var body bytes.Buffer
	body.WriteString("LWO2")
	body.Write(chunk("TAGS", []byte("Default\x00")))
	body.Write(chunk("PNTS", pnts.Bytes()))
	body.Write(chunk("POLS", pols.Bytes()))

	var out bytes.Buffer
	out.WriteString("FORM")
	binary.Write(&out, binary.BigEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func writeFixtures(t *testing.T) (good, bad, missing string) {
	t.Helper()
	dir := t.TempDir()
	good = filepath.Join(dir, "good.lwo")
	bad = filepath.Join(dir, "bad.lwo")
	missing = filepath.Join(dir, "missing.lwo")
	if err := os.WriteFile(good, makeLWO2(), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("FORM\x00\x00\x00\x04RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	return good, bad, missing
}

func TestRun(t *testing.T) {
	good, bad, missing := writeFixtures(t)
	paths := []string{good, bad, missing, good}

	results := Run(context.Background(), Config{Workers: 2, Timeout: time.Minute}, paths)
	if len(results) != len(paths) {
		t.Fatalf("got %d results, want %d", len(results), len(paths))
	}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("result %d path = %s, want %s", i, r.Path, paths[i])
		}
	}

	for _, i := range []int{0, 3} {
		r := results[i]
		if !r.OK() {
			t.Fatalf("result %d error = %v", i, r.Err)
		}
		if r.Format != lwo.FormatLWO2 || r.Stats.Points != 3 || r.Stats.Polygons != 1 {
			t.Errorf("result %d = %+v", i, r)
		}
		if r.Size == 0 {
			t.Errorf("result %d has no size", i)
		}
	}
	if !errors.Is(results[1].Err, lwo.ErrMalformedContainer) {
		t.Errorf("bad file error = %v, want ErrMalformedContainer", results[1].Err)
	}
	if !errors.Is(results[2].Err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want ErrNotExist", results[2].Err)
	}
}

func TestRun_Cancelled(t *testing.T) {
	good, _, _ := writeFixtures(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := Run(ctx, Config{Workers: 1}, []string{good, good, good})
	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("result %d error = %v, want context.Canceled", i, r.Err)
		}
	}
}

func TestManifest(t *testing.T) {
	good, bad, _ := writeFixtures(t)
	started := time.Now()
	results := Run(context.Background(), Config{Workers: 1}, []string{good, bad})

	m := NewManifest(started, results)
	if _, err := uuid.Parse(m.RunID); err != nil {
		t.Errorf("RunID %q is not a UUID: %v", m.RunID, err)
	}
	if m.Files != 2 || m.Failed != 1 {
		t.Errorf("Files = %d, Failed = %d, want 2 and 1", m.Files, m.Failed)
	}
	if m.Entries[0].Format != "LWO2" || m.Entries[0].Error != "" {
		t.Errorf("entry 0 = %+v", m.Entries[0])
	}
	if m.Entries[1].Error == "" {
		t.Error("entry 1 should carry its error")
	}

	path := filepath.Join(t.TempDir(), "manifest.yaml")
	if err := WriteManifest(path, m); err != nil {
		t.Fatalf("WriteManifest() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var back Manifest
	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatalf("manifest is not valid YAML: %v", err)
	}
	if back.RunID != m.RunID || len(back.Entries) != 2 || back.Entries[0].Points != 3 {
		t.Errorf("reloaded manifest = %+v", back)
	}
}
