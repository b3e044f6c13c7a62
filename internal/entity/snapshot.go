package entity

import (
	"strings"
	"time"
	"unicode"
)

type SnapshotKind string

const (
	SnapshotResult SnapshotKind = "result"
	SnapshotError  SnapshotKind = "error"
)

// Snapshot is a PNG screenshot kept for diagnostics.
type Snapshot struct {
	TakenAt time.Time
	Kind    SnapshotKind
	Label   string
	PNG     []byte
}

// FileName is "<kind>_<timestamp>[_<label>].png" with the label made path safe.
func (s Snapshot) FileName() string {
	name := string(s.Kind) + "_" + s.TakenAt.Format("20060102_150405")
	if label := safeLabel(s.Label); label != "" {
		name += "_" + label
	}
	return name + ".png"
}

func safeLabel(label string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || unicode.IsSpace(r):
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(label))
}
