// Package stats parses the scheduler's per-node status blobs into
// structured records.
package stats

import (
	"bufio"
	"strconv"
	"strings"
)

// NodeRecord is one worker node's latest known state. A NodeRecord either
// carries all required fields or is never produced at all; Parse discards
// partial records instead of exposing them.
type NodeRecord struct {
	HostID   uint32 // stable identity, 0 is invalid
	Name     string
	IP       string
	Platform string
	MaxJobs  uint32 // capacity in cores, 0 is invalid
	NoRemote bool   // excluded from remote-job capacity accounting
	Offline  bool   // currently unreachable
}

// valid reports whether every required field is present.
func (r NodeRecord) valid() bool {
	return r.HostID > 0 && r.Name != "" && r.IP != "" && r.Platform != "" && r.MaxJobs > 0
}

// Parse builds a NodeRecord from a raw stats blob: newline-separated
// "key:value" lines, keys case-insensitive, first colon splits, value runs
// to end of line. Unknown keys are ignored; lines without a colon are
// skipped. Returns false when the blob does not yield a complete record;
// that is a filtering signal, not an error.
func Parse(hostID uint32, blob string) (NodeRecord, bool) {
	rec := NodeRecord{HostID: hostID}

	scanner := bufio.NewScanner(strings.NewReader(blob))
	for scanner.Scan() {
		line := scanner.Text()
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])

		switch key {
		case "name":
			rec.Name = value
		case "ip":
			rec.IP = value
		case "platform":
			rec.Platform = value
		case "maxjobs":
			jobs, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				// A garbled capacity invalidates the whole record.
				return NodeRecord{}, false
			}
			rec.MaxJobs = uint32(jobs)
		case "noremote":
			rec.NoRemote = strings.ToLower(value) == "true"
		case "state":
			rec.Offline = strings.ToLower(value) == "offline"
		}
	}
	if err := scanner.Err(); err != nil {
		return NodeRecord{}, false
	}

	if !rec.valid() {
		return NodeRecord{}, false
	}
	return rec, true
}
