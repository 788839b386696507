// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxMemberBytes caps the decompressed size of a single archive member.
const maxMemberBytes = 100 * 1024 * 1024

// member is one regular file extracted from a source archive. Size is
// the declared size from the tar header, or the decompressed length for
// a single-gzip archive.
type member struct {
	rel  string
	size int64
}

// extractArchive expands every member of the archive at archivePath into
// dstDir and returns the member list. arXiv serves either a gzipped tar
// container or a single gzip-compressed file; the latter is detected when
// the decompressed stream is not a tar archive, and is stored under its
// gzip header name or fallbackName.
//
// Entry names are cleaned and anything escaping dstDir is skipped.
func extractArchive(archivePath, dstDir, fallbackName string) ([]member, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("opening gzip stream: %w", err)
	}
	defer gz.Close()

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dstDir, err)
	}

	tr := tar.NewReader(gz)
	hdr, err := tr.Next()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		// Not a tar container; treat the stream as one compressed file.
		return extractSingle(f, dstDir, fallbackName)
	}

	var members []member
	for {
		if hdr.Typeflag == tar.TypeReg {
			name, ok := safeRelPath(hdr.Name)
			if ok {
				if err := writeMember(tr, filepath.Join(dstDir, name)); err != nil {
					return nil, err
				}
				members = append(members, member{rel: name, size: hdr.Size})
			}
		}

		hdr, err = tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading archive: %w", err)
		}
	}
	return members, nil
}

// extractSingle decompresses a single-gzip archive into dstDir. The
// member name comes from the gzip FNAME header when the archive carries
// one, else fallbackName.
func extractSingle(f *os.File, dstDir, fallbackName string) ([]member, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding archive: %w", err)
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("reopening gzip stream: %w", err)
	}
	defer gz.Close()

	name := gz.Header.Name
	if name == "" {
		name = fallbackName
	}
	rel, ok := safeRelPath(name)
	if !ok {
		rel, _ = safeRelPath(fallbackName)
	}

	dest := filepath.Join(dstDir, rel)
	n, err := writeMemberCount(gz, dest)
	if err != nil {
		return nil, err
	}
	return []member{{rel: rel, size: n}}, nil
}

// safeRelPath cleans an archive entry name and reports whether it stays
// inside the extraction root.
func safeRelPath(name string) (string, bool) {
	name = filepath.Clean(filepath.FromSlash(name))
	if name == "." || filepath.IsAbs(name) {
		return "", false
	}
	if name == ".." || strings.HasPrefix(name, ".."+string(filepath.Separator)) {
		return "", false
	}
	return name, true
}

// writeMember copies one archive member to dest, creating parent
// directories as needed.
func writeMember(r io.Reader, dest string) error {
	_, err := writeMemberCount(r, dest)
	return err
}

func writeMemberCount(r io.Reader, dest string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", dest, err)
	}
	n, copyErr := io.Copy(out, io.LimitReader(r, maxMemberBytes))
	closeErr := out.Close()
	if copyErr != nil {
		return n, fmt.Errorf("writing %s: %w", dest, copyErr)
	}
	if closeErr != nil {
		return n, fmt.Errorf("closing %s: %w", dest, closeErr)
	}
	return n, nil
}

// copyKept copies the members whose extension is in keep from srcDir to
// destDir, preserving relative paths, and returns the copied byte total.
func copyKept(srcDir, destDir string, members []member, keep []string) (int64, error) {
	keepSet := make(map[string]bool, len(keep))
	for _, ext := range keep {
		keepSet[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	var total int64
	for _, m := range members {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(m.rel)), ".")
		if !keepSet[ext] {
			continue
		}
		dest := filepath.Join(destDir, m.rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return total, fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
		}
		n, err := copyFile(filepath.Join(srcDir, m.rel), dest)
		if err != nil {
			return total, fmt.Errorf("copying %s: %w", m.rel, err)
		}
		total += n
	}
	return total, nil
}

func copyFile(src, dest string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return 0, err
	}
	n, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if copyErr != nil {
		return n, copyErr
	}
	return n, closeErr
}
