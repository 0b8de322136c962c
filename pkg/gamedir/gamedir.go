// Package gamedir locates archives inside a game installation.
//
// The installation directory is injected by the caller, from a flag or the
// SIMS_INSTALL_PATH environment variable. Object archives shipped with the
// game are addressed by their description's object file; variant archives
// live in the downloads directory under names built from a format string.
package gamedir

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"

	"github.com/eunmann/iffc/internal/logctx"
	"github.com/eunmann/iffc/pkg/fileutil"
)

const (
	// EnvInstallPath names the environment variable holding the install directory.
	EnvInstallPath = "SIMS_INSTALL_PATH"
	// DownloadsDirName is the directory variant archives are installed into.
	DownloadsDirName = "downloads"
	// ArchiveExt is the extension of every archive.
	ArchiveExt = ".iff"
)

// ErrNoInstall indicates that no install directory was configured.
var ErrNoInstall = errors.New("game install directory not set: use --game-dir or " + EnvInstallPath)

// Dir is a game installation.
type Dir struct {
	Path string
}

// Resolve returns the installation at path, or at $SIMS_INSTALL_PATH when
// path is empty. The directory must exist.
func Resolve(path string) (*Dir, error) {
	if path == "" {
		path = os.Getenv(EnvInstallPath)
	}
	if path == "" {
		return nil, ErrNoInstall
	}
	if !fileutil.IsDir(path) {
		return nil, fmt.Errorf("game install directory %s: %w", path, os.ErrNotExist)
	}
	return &Dir{Path: path}, nil
}

// Downloads returns the directory variant archives are installed into.
func (d *Dir) Downloads() string {
	return filepath.Join(d.Path, DownloadsDirName)
}

// ArchivePath returns the archive for an object file recorded in a
// description. Object files use Windows separators and carry no extension.
func (d *Dir) ArchivePath(objectFile string) string {
	rel := filepath.FromSlash(strings.ReplaceAll(objectFile, `\`, "/"))
	return withArchiveExt(filepath.Join(d.Path, rel))
}

// VariantName describes a variant archive name. Format may reference
// {name}, {hash}, {object} and {variant}.
type VariantName struct {
	Format  string
	Creator string
	Object  string
	Variant string
}

// Hash returns the name hash of the variant.
func (n VariantName) Hash() string {
	return NameHash(n.Object, n.Variant)
}

// FileName returns the archive file name with the given hash substituted.
func (n VariantName) FileName(hash string) string {
	r := strings.NewReplacer(
		"{name}", n.Creator,
		"{hash}", hash,
		"{object}", n.Object,
		"{variant}", n.Variant,
	)
	return withArchiveExt(r.Replace(n.Format))
}

// NameHash abbreviates "<object> <variant>" to the first two characters of
// every word longer than one byte, followed by the uppercase hex FNV-1a hash
// of the whole string.
func NameHash(object, variant string) string {
	name := object + " " + variant

	var b strings.Builder
	for _, word := range strings.Split(name, " ") {
		if len(word) <= 1 {
			continue
		}
		runes := []rune(word)
		b.WriteString(string(runes[:min(2, len(runes))]))
	}

	h := fnv.New32a()
	h.Write([]byte(name))
	fmt.Fprintf(&b, "%X", h.Sum32())
	return b.String()
}

// VariantArchive returns the path of a variant archive in the downloads
// directory. When only the unhashed name exists it is renamed to the hashed
// name first.
func (d *Dir) VariantArchive(ctx context.Context, n VariantName) (string, error) {
	downloads := d.Downloads()
	path := filepath.Join(downloads, n.FileName(n.Hash()))

	if fileutil.IsFile(path) {
		return path, nil
	}

	unhashed := filepath.Join(downloads, n.FileName(""))
	if err := os.Rename(unhashed, path); err != nil {
		return "", fmt.Errorf("variant archive %s: %w", path, err)
	}
	log := logctx.FromContext(ctx)
	log.Info().
		Str("from", unhashed).
		Str("to", path).
		Msg("renamed variant archive to hashed name")
	return path, nil
}

// withArchiveExt replaces the extension of name, if any, with ArchiveExt.
func withArchiveExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ArchiveExt
}
