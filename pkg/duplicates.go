package pkg

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// DuplicateGroup collects records that share a naming prefix and byte size.
// The identifiers keep the input order; the first one is the retained
// representative, all others are flagged for removal.
type DuplicateGroup struct {
	Prefix      string
	SizeBytes   int64
	Identifiers []string
}

// Retained returns the identifier kept for this group.
func (g DuplicateGroup) Retained() string {
	return g.Identifiers[0]
}

// DuplicateResolution is the outcome of ResolveDuplicates.
type DuplicateResolution struct {
	// Groups lists every (prefix, size) group with more than one member,
	// in order of first appearance in the input.
	Groups []DuplicateGroup
	// ToRemove is the set of identifiers flagged as duplicates.
	ToRemove map[string]bool
	// Warnings describes records that were excluded from grouping.
	Warnings []string
}

// ResolveDuplicates partitions records by (naming prefix, byte size) and flags
// every record but the first of each group as a duplicate. The function does no
// I/O: sizes must already be populated on the records. A record with an unknown
// size (SizeBytes < 0) is never grouped and never flagged; it is reported in
// Warnings instead.
//
// Resolution is idempotent: running it again on the retained records flags
// nothing further.
func ResolveDuplicates(records []MediaRecord) DuplicateResolution {
	type groupKey struct {
		prefix string
		size   int64
	}

	res := DuplicateResolution{ToRemove: make(map[string]bool)}

	byKey := make(map[groupKey][]string)
	keyOrder := make([]groupKey, 0, len(records))
	for _, rec := range records {
		if rec.SizeBytes < 0 {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("size unknown for %s; treated as unique", rec.Identifier))
			continue
		}
		key := groupKey{prefix: rec.NamingPrefix, size: rec.SizeBytes}
		if _, seen := byKey[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		byKey[key] = append(byKey[key], rec.Identifier)
	}

	for _, key := range keyOrder {
		ids := byKey[key]
		if len(ids) < 2 {
			continue
		}
		res.Groups = append(res.Groups, DuplicateGroup{
			Prefix:      key.prefix,
			SizeBytes:   key.size,
			Identifiers: ids,
		})
		for _, id := range ids[1:] {
			res.ToRemove[id] = true
		}
	}
	return res
}

// DuplicateInfo holds information about a kept/discarded file pair, for reporting.
type DuplicateInfo struct {
	KeptFile      string
	DiscardedFile string
	Reason        string
}

// CalculateFileHash calculates the SHA-256 hash of a file's content.
func CalculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s for hashing: %w", filePath, err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to copy file content to hasher for %s: %w", filePath, err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// VerifySameContent reports whether two files hash to the same SHA-256 digest.
// photodedupe calls this before deleting a flagged duplicate, so a same-size
// file with different content is never removed.
func VerifySameContent(pathA, pathB string) (bool, error) {
	hashA, err := CalculateFileHash(pathA)
	if err != nil {
		return false, err
	}
	hashB, err := CalculateFileHash(pathB)
	if err != nil {
		return false, err
	}
	return hashA == hashB, nil
}
