// Package wire decodes the binary replay listing returned by the game's
// catalog endpoint. The format is MessagePack-flavoured but carries no
// length prefixes for its variable-width fields, so decoding relies on
// fixed byte offsets and known separator bytes observed against the live
// service. Those offsets are contract: the service ships no version tag,
// so any drift shows up as a structural decode failure rather than a
// clean version mismatch.
package wire

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"strive-tracker/internal/domain"
)

const (
	// A response holding zero replays is just the static header, which
	// is 61 bytes plus a two byte tail. Anything shorter than 63 bytes
	// means "no matches on this page".
	headerLen      = 61
	minResponseLen = 63

	// Player ids are always 18 ASCII decimal digits. The name starts
	// one byte after them and runs until the name terminator.
	idLen      = 18
	nameOffset = 19

	// In the third fragment everything before offset 38 repeats the id
	// and name; the winner byte and timestamp sit behind it, separated
	// by the timestamp marker.
	metaOffset = 38

	minFragment2Len = 20
	// 71 bytes covers the documented short variant where a player has a
	// dummy username instead of an online id.
	minFragment3Len = 71

	timestampLen    = 19
	timestampLayout = "2006-01-02 15:04:05"

	nameTerminator  = 0xb1
	timestampMarker = 0xb3
)

// Decoder holds the separator patterns used to cut a response apart. It
// is immutable after construction and safe for concurrent use.
type Decoder struct {
	matchSep     []byte
	fragmentMark []byte
}

func NewDecoder() *Decoder {
	return &Decoder{
		matchSep:     []byte{0x01, 0x00, 0x00, 0x00},
		fragmentMark: []byte{0x95, 0xb2},
	}
}

// Decode extracts every replay record from one raw catalog response. A
// buffer too short to hold any record yields an empty result and no
// error. The first structural anomaly aborts the whole decode; partial
// results are never returned.
func (d *Decoder) Decode(raw []byte) ([]domain.Match, error) {
	if len(raw) < minResponseLen {
		return nil, nil
	}
	body := raw[headerLen:]

	var matches []domain.Match
	for _, segment := range bytes.Split(body, d.matchSep) {
		if len(segment) == 0 {
			continue
		}
		m, err := d.decodeSegment(segment)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// decodeSegment parses one match segment. A segment splits on the
// fragment marker into three logical fragments; anything before them is
// padding and gets discarded:
//
//	fragment 1: ...{floor}{p1 char}{p2 char}
//	fragment 2: {p1 id, 18 digits}\xa_{p1 name}\xb1{...}
//	fragment 3: {p2 id, 18 digits}\xa_{p2 name}\xb1{...}{winner}\xb3{timestamp}
func (d *Decoder) decodeSegment(segment []byte) (domain.Match, error) {
	var zero domain.Match

	fragments := bytes.Split(segment, d.fragmentMark)
	if len(fragments) < 3 {
		return zero, structuralf(nil, segment, "segment has %d data parts, need 3", len(fragments))
	}
	fragments = fragments[len(fragments)-3:]

	head := fragments[0]
	if len(head) < 3 {
		return zero, structuralf(head, nil, "first data part does not have 3 bytes")
	}
	floorByte := head[len(head)-3]
	p1CharByte := head[len(head)-2]
	p2CharByte := head[len(head)-1]

	p1ID, p1Name, err := d.extractIdentity(fragments[1], segment, minFragment2Len, "second")
	if err != nil {
		return zero, err
	}

	p2ID, p2Name, err := d.extractIdentity(fragments[2], segment, minFragment3Len, "third")
	if err != nil {
		return zero, err
	}

	winnerByte, timestamp, err := d.extractOutcome(fragments[2], segment)
	if err != nil {
		return zero, err
	}

	return assembleMatch(rawMatch{
		segment:    segment,
		floorByte:  floorByte,
		p1CharByte: p1CharByte,
		p2CharByte: p2CharByte,
		p1ID:       p1ID,
		p1Name:     p1Name,
		p2ID:       p2ID,
		p2Name:     p2Name,
		winnerByte: winnerByte,
		timestamp:  timestamp,
	})
}

// extractIdentity pulls the numeric id and the name out of a player
// fragment. The id occupies the first 18 bytes, the name starts at byte
// 19 and runs until the name terminator, or to the end of the fragment
// when no terminator follows.
func (d *Decoder) extractIdentity(fragment, segment []byte, minLen int, which string) (string, string, error) {
	if len(fragment) < minLen {
		return "", "", structuralf(fragment, segment,
			"%s data part does not have %d bytes, has %d instead", which, minLen, len(fragment))
	}
	id := string(fragment[:idLen])

	nameBytes := fragment[nameOffset:]
	if i := bytes.IndexByte(nameBytes, nameTerminator); i >= 0 {
		nameBytes = nameBytes[:i]
	}
	return id, lossyString(nameBytes), nil
}

// extractOutcome finds the winner byte and the timestamp in the third
// fragment. From offset 38 on, the fragment splits on the timestamp
// marker; the last piece leads with the 19 byte timestamp and the piece
// before it ends with the winner byte. Extra marker bytes earlier in the
// tail are tolerated because only the trailing two pieces matter.
func (d *Decoder) extractOutcome(fragment, segment []byte) (byte, string, error) {
	tail := fragment[metaOffset:]
	pieces := bytes.Split(tail, []byte{timestampMarker})
	if len(pieces) < 2 {
		return 0, "", structuralf(tail, segment, "could not split winner and timestamp")
	}

	timePiece := pieces[len(pieces)-1]
	if len(timePiece) < timestampLen {
		return 0, "", structuralf(tail, segment, "not enough bytes to parse timestamp")
	}

	winnerPiece := pieces[len(pieces)-2]
	if len(winnerPiece) == 0 {
		return 0, "", structuralf(tail, segment, "could not find winner byte")
	}

	return winnerPiece[len(winnerPiece)-1], string(timePiece[:timestampLen]), nil
}

type rawMatch struct {
	segment    []byte
	floorByte  byte
	p1CharByte byte
	p2CharByte byte
	p1ID       string
	p1Name     string
	p2ID       string
	p2Name     string
	winnerByte byte
	timestamp  string
}

// assembleMatch runs the extracted subfields through the checked domain
// mappings. The first invalid subfield fails the whole decode.
func assembleMatch(r rawMatch) (domain.Match, error) {
	var zero domain.Match

	floor, err := domain.FloorFromByte(r.floorByte)
	if err != nil {
		return zero, structuralf(nil, r.segment, "%s", err)
	}
	p1Char, err := domain.CharacterFromByte(r.p1CharByte)
	if err != nil {
		return zero, structuralf(nil, r.segment, "player 1: %s", err)
	}
	p2Char, err := domain.CharacterFromByte(r.p2CharByte)
	if err != nil {
		return zero, structuralf(nil, r.segment, "player 2: %s", err)
	}
	winner, err := domain.WinnerFromByte(r.winnerByte)
	if err != nil {
		return zero, structuralf(nil, r.segment, "%s", err)
	}

	p1ID, err := strconv.ParseUint(r.p1ID, 10, 64)
	if err != nil {
		return zero, structuralf([]byte(r.p1ID), r.segment, "could not parse player 1 id")
	}
	p2ID, err := strconv.ParseUint(r.p2ID, 10, 64)
	if err != nil {
		return zero, structuralf([]byte(r.p2ID), r.segment, "could not parse player 2 id")
	}

	timestamp, err := time.Parse(timestampLayout, r.timestamp)
	if err != nil {
		return zero, structuralf([]byte(r.timestamp), r.segment, "could not parse timestamp")
	}

	return domain.Match{
		Floor:     floor,
		Timestamp: timestamp.UTC(),
		Players: [2]domain.Player{
			{ID: p1ID, Name: r.p1Name, Character: p1Char},
			{ID: p2ID, Name: r.p2Name, Character: p2Char},
		},
		Winner: winner,
	}, nil
}

// lossyString decodes bytes as UTF-8 with invalid sequences replaced.
// Player names regularly contain garbage bytes; rejecting them would
// make otherwise valid matches undecodable.
func lossyString(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
