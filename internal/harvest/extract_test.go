// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type tarEntry struct {
	name string
	body []byte
}

// buildTarGz assembles a gzipped tar archive in memory.
func buildTarGz(t *testing.T, entries []tarEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, e := range entries {
		hdr := &tar.Header{
			Name:     e.name,
			Mode:     0o644,
			Size:     int64(len(e.body)),
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("writing tar header for %s: %v", e.name, err)
		}
		if _, err := tw.Write(e.body); err != nil {
			t.Fatalf("writing tar member %s: %v", e.name, err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("closing tar writer: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("closing gzip writer: %v", err)
	}
	return buf.Bytes()
}

// buildGz compresses body as a bare gzip stream, optionally recording
// name in the FNAME header.
func buildGz(t *testing.T, name string, body []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	gz.Name = name
	if _, err := gz.Write(body); err != nil {
		t.Fatalf("writing gzip body: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("closing gzip writer: %v", err)
	}
	return buf.Bytes()
}

func writeArchive(t *testing.T, dir string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, "eprint.gz")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing archive file: %v", err)
	}
	return path
}

func TestExtractArchiveTar(t *testing.T) {
	dir := t.TempDir()
	archive := writeArchive(t, dir, buildTarGz(t, []tarEntry{
		{name: "main.tex", body: []byte("\\documentclass{article}")},
		{name: "sections/intro.tex", body: []byte("\\section{Introduction}")},
		{name: "fig1.png", body: bytes.Repeat([]byte{0x89}, 64)},
	}))

	members, err := extractArchive(archive, filepath.Join(dir, "src"), "fallback.tex")
	if err != nil {
		t.Fatalf("extractArchive: %v", err)
	}

	got := make(map[string]int64, len(members))
	for _, m := range members {
		got[m.rel] = m.size
	}
	want := map[string]int64{
		"main.tex": 23,
		"fig1.png": 64,
		filepath.Join("sections", "intro.tex"): 22,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("members = %v, want %v", got, want)
	}

	data, err := os.ReadFile(filepath.Join(dir, "src", "sections", "intro.tex"))
	if err != nil {
		t.Fatalf("reading extracted member: %v", err)
	}
	if string(data) != "\\section{Introduction}" {
		t.Errorf("extracted content = %q", data)
	}
}

func TestExtractArchiveSkipsEscapingPaths(t *testing.T) {
	dir := t.TempDir()
	archive := writeArchive(t, dir, buildTarGz(t, []tarEntry{
		{name: "../evil.tex", body: []byte("bad")},
		{name: "/abs.tex", body: []byte("bad")},
		{name: "ok.tex", body: []byte("good")},
	}))

	members, err := extractArchive(archive, filepath.Join(dir, "src"), "fallback.tex")
	if err != nil {
		t.Fatalf("extractArchive: %v", err)
	}
	if len(members) != 1 || members[0].rel != "ok.tex" {
		t.Fatalf("expected only ok.tex, got %+v", members)
	}
	if _, err := os.Stat(filepath.Join(dir, "evil.tex")); !os.IsNotExist(err) {
		t.Error("traversal entry escaped the extraction root")
	}
}

func TestExtractArchiveEmptyTar(t *testing.T) {
	dir := t.TempDir()
	archive := writeArchive(t, dir, buildTarGz(t, nil))

	members, err := extractArchive(archive, filepath.Join(dir, "src"), "fallback.tex")
	if err != nil {
		t.Fatalf("extractArchive: %v", err)
	}
	if len(members) != 0 {
		t.Fatalf("expected no members, got %+v", members)
	}
}

func TestExtractArchiveSingleGzip(t *testing.T) {
	body := []byte("\\documentclass{article}\n\\begin{document}\nhello\n\\end{document}\n")

	tests := []struct {
		name    string
		gzName  string
		wantRel string
	}{
		{name: "named stream", gzName: "paper.tex", wantRel: "paper.tex"},
		{name: "anonymous stream", gzName: "", wantRel: "1706.03762v1.tex"},
		{name: "escaping name", gzName: "../paper.tex", wantRel: "1706.03762v1.tex"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			archive := writeArchive(t, dir, buildGz(t, tt.gzName, body))

			members, err := extractArchive(archive, filepath.Join(dir, "src"), "1706.03762v1.tex")
			if err != nil {
				t.Fatalf("extractArchive: %v", err)
			}
			if len(members) != 1 {
				t.Fatalf("expected 1 member, got %d", len(members))
			}
			if members[0].rel != tt.wantRel {
				t.Errorf("member = %q, want %q", members[0].rel, tt.wantRel)
			}
			if members[0].size != int64(len(body)) {
				t.Errorf("size = %d, want %d", members[0].size, len(body))
			}

			data, err := os.ReadFile(filepath.Join(dir, "src", tt.wantRel))
			if err != nil {
				t.Fatalf("reading extracted member: %v", err)
			}
			if !bytes.Equal(data, body) {
				t.Error("extracted content does not match the compressed body")
			}
		})
	}
}

func TestExtractArchiveNotGzip(t *testing.T) {
	dir := t.TempDir()
	archive := writeArchive(t, dir, []byte("%PDF-1.5 not an archive"))

	if _, err := extractArchive(archive, filepath.Join(dir, "src"), "fallback.tex"); err == nil {
		t.Fatal("expected an error for a non-gzip payload")
	}
}

func TestCopyKept(t *testing.T) {
	entries := []tarEntry{
		{name: "main.tex", body: []byte("main")},
		{name: "refs.bib", body: []byte("@article{x}")},
		{name: "sections/intro.TEX", body: []byte("intro")},
		{name: "fig1.png", body: bytes.Repeat([]byte{1}, 100)},
		{name: "build/paper.pdf", body: bytes.Repeat([]byte{2}, 200)},
	}

	src := t.TempDir()
	var members []member
	for _, e := range entries {
		path := filepath.Join(src, filepath.FromSlash(e.name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating source dir: %v", err)
		}
		if err := os.WriteFile(path, e.body, 0o644); err != nil {
			t.Fatalf("writing source file: %v", err)
		}
		members = append(members, member{rel: filepath.FromSlash(e.name), size: int64(len(e.body))})
	}

	dest := filepath.Join(t.TempDir(), "kept")
	total, err := copyKept(src, dest, members, []string{".tex", ".bib"})
	if err != nil {
		t.Fatalf("copyKept: %v", err)
	}

	// main.tex + refs.bib + intro.TEX; extension matching ignores case.
	if want := int64(4 + 11 + 5); total != want {
		t.Errorf("copied total = %d, want %d", total, want)
	}
	for _, rel := range []string{"main.tex", "refs.bib", "sections/intro.TEX"} {
		if _, err := os.Stat(filepath.Join(dest, filepath.FromSlash(rel))); err != nil {
			t.Errorf("kept file %s missing: %v", rel, err)
		}
	}
	for _, rel := range []string{"fig1.png", "build/paper.pdf"} {
		if _, err := os.Stat(filepath.Join(dest, filepath.FromSlash(rel))); !os.IsNotExist(err) {
			t.Errorf("filtered file %s should not be copied", rel)
		}
	}
}

func TestCopyKeptNoKeepList(t *testing.T) {
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "main.tex"), []byte("main"), 0o644); err != nil {
		t.Fatalf("writing source file: %v", err)
	}

	total, err := copyKept(src, filepath.Join(t.TempDir(), "kept"), []member{{rel: "main.tex", size: 4}}, nil)
	if err != nil {
		t.Fatalf("copyKept: %v", err)
	}
	if total != 0 {
		t.Errorf("copied total = %d, want 0", total)
	}
}
