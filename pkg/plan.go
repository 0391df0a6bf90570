package pkg

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Move is one planned file relocation.
type Move struct {
	SourcePath string
	DestDir    string
	DestPath   string
}

// Removal is one planned duplicate deletion. KeptPath is the retained
// representative the duplicate was grouped with; its content is verified
// against the duplicate before anything is deleted.
type Removal struct {
	Path      string
	SizeBytes int64
	KeptPath  string
}

// Plan is the full set of filesystem actions computed for one run. It is built
// in memory first so that dry-run mode can render it without touching the
// filesystem at all.
type Plan struct {
	Folders  []string
	Moves    []Move
	Removals []Removal
}

// AddTrip plans the directory for one folder assignment and a move for each of
// its records.
func (p *Plan) AddTrip(destDir string, trip Trip) {
	p.Folders = append(p.Folders, destDir)
	for _, rec := range trip.Records {
		p.Moves = append(p.Moves, Move{
			SourcePath: rec.Path,
			DestDir:    destDir,
			DestPath:   filepath.Join(destDir, rec.Identifier),
		})
	}
}

// BytesFreed sums the sizes of all planned removals. Unknown sizes count as 0.
func (p *Plan) BytesFreed() int64 {
	var total int64
	for _, r := range p.Removals {
		if r.SizeBytes > 0 {
			total += r.SizeBytes
		}
	}
	return total
}

// Render writes a human-readable description of the plan, used as the dry-run
// report.
func (p *Plan) Render(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Planned actions\n")
	fmt.Fprintf(&b, "===============\n\n")
	fmt.Fprintf(&b, "Summary:\n")
	fmt.Fprintf(&b, "  - Folders to create: %d\n", len(p.Folders))
	fmt.Fprintf(&b, "  - Files to move: %d\n", len(p.Moves))
	fmt.Fprintf(&b, "  - Duplicates to remove: %d\n", len(p.Removals))
	fmt.Fprintf(&b, "  - Bytes freed by removals: %d\n", p.BytesFreed())

	if len(p.Folders) > 0 {
		fmt.Fprintf(&b, "\nFolders:\n")
		for _, dir := range p.Folders {
			fmt.Fprintf(&b, "  - Would create %s\n", dir)
		}
	}
	if len(p.Removals) > 0 {
		fmt.Fprintf(&b, "\nRemovals:\n")
		for _, r := range p.Removals {
			fmt.Fprintf(&b, "  - Would remove %s (duplicate of %s, frees %d bytes)\n",
				filepath.Base(r.Path), filepath.Base(r.KeptPath), r.SizeBytes)
		}
	}
	if len(p.Moves) > 0 {
		fmt.Fprintf(&b, "\nMoves:\n")
		for _, m := range p.Moves {
			fmt.Fprintf(&b, "  - Would move %s to %s\n", filepath.Base(m.SourcePath), m.DestDir)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// ApplyResult summarizes what a live run actually did. Failures counts actions
// that were skipped after a logged error; a non-zero value means the run
// completed partially.
type ApplyResult struct {
	FoldersCreated int
	FilesMoved     int
	FilesRemoved   int
	BytesFreed     int64
	Failures       int
}

// Apply executes the plan against the filesystem, best-effort: directory
// creation is idempotent, and a failed move or removal is logged and skipped
// without aborting the batch. Removals run before moves so that a duplicate
// can still be verified against its retained file at the original location,
// and only after that verification succeeds is anything deleted.
func (p *Plan) Apply() ApplyResult {
	var result ApplyResult

	for _, dir := range p.Folders {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Printf("Error creating folder %s: %v. Skipping.", dir, err)
			result.Failures++
			continue
		}
		result.FoldersCreated++
	}

	for _, r := range p.Removals {
		same, err := VerifySameContent(r.Path, r.KeptPath)
		if err != nil {
			log.Printf("Error verifying duplicate %s against %s: %v. Keeping file.", r.Path, r.KeptPath, err)
			result.Failures++
			continue
		}
		if !same {
			log.Printf("Warning: %s has the same size as %s but different content. Keeping file.", r.Path, r.KeptPath)
			result.Failures++
			continue
		}
		if err := os.Remove(r.Path); err != nil {
			log.Printf("Error removing duplicate %s: %v. Skipping.", r.Path, err)
			result.Failures++
			continue
		}
		fmt.Printf("Removed duplicate %s (kept %s)\n", filepath.Base(r.Path), filepath.Base(r.KeptPath))
		result.FilesRemoved++
		if r.SizeBytes > 0 {
			result.BytesFreed += r.SizeBytes
		}
	}

	for _, m := range p.Moves {
		if err := MoveFile(m.SourcePath, m.DestPath); err != nil {
			log.Printf("Error moving %s to %s: %v. Skipping.", m.SourcePath, m.DestPath, err)
			result.Failures++
			continue
		}
		fmt.Printf("Moved %s to %s\n", filepath.Base(m.SourcePath), m.DestDir)
		result.FilesMoved++
	}

	return result
}

// MoveFile relocates a file, using os.Rename when possible and falling back to
// copy-and-delete when the rename fails (e.g. across filesystems).
func MoveFile(srcPath, destPath string) error {
	if err := os.Rename(srcPath, destPath); err == nil {
		return nil
	}
	if err := copyFile(srcPath, destPath); err != nil {
		return err
	}
	if err := os.Remove(srcPath); err != nil {
		return fmt.Errorf("copied %s to %s but failed to remove source: %w", srcPath, destPath, err)
	}
	return nil
}

// copyFile copies a file from srcPath to destPath, creating the destination
// directory if needed and syncing the result to disk.
func copyFile(srcPath, destPath string) error {
	destDir := filepath.Dir(destPath)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory %s: %w", destDir, err)
	}

	sourceFile, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", srcPath, err)
	}
	defer sourceFile.Close()

	destinationFile, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", destPath, err)
	}
	defer destinationFile.Close()

	if _, err = io.Copy(destinationFile, sourceFile); err != nil {
		return fmt.Errorf("failed to copy content from %s to %s: %w", srcPath, destPath, err)
	}

	if err = destinationFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync destination file %s: %w", destPath, err)
	}

	return nil
}
