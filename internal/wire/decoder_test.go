package wire

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"strive-tracker/internal/domain"
)

// encodeIdentity writes a player identity the way the service does: the
// 18 digit id, a fixstr tag, the name, the name terminator and a 17
// digit trailing number.
func encodeIdentity(buf *bytes.Buffer, p domain.Player) {
	fmt.Fprintf(buf, "%018d", p.ID)
	buf.WriteByte(0xa0 | byte(len(p.Name)))
	buf.WriteString(p.Name)
	buf.WriteByte(0xb1)
	buf.WriteString("76561198045733267")
}

// encodeSegment reproduces the wire layout of one match segment.
func encodeSegment(m domain.Match) []byte {
	var buf bytes.Buffer

	// leading noise before the floor/character triple
	buf.Write([]byte{0x99, 0xcd})
	buf.WriteByte(byte(m.Floor))
	buf.WriteByte(byte(m.Players[0].Character))
	buf.WriteByte(byte(m.Players[1].Character))

	buf.Write([]byte{0x95, 0xb2})
	encodeIdentity(&buf, m.Players[0])
	buf.WriteByte(0xaf)
	buf.WriteString("1122334455667788")
	buf.WriteByte(0x07)

	buf.Write([]byte{0x95, 0xb2})
	encodeIdentity(&buf, m.Players[1])
	buf.WriteByte(0xaf)
	buf.WriteString("8877665544332211")
	buf.WriteByte(0x09)
	buf.WriteByte(byte(m.Winner))
	buf.WriteByte(0xb3)
	buf.WriteString(m.Timestamp.UTC().Format("2006-01-02 15:04:05"))

	return buf.Bytes()
}

// encodeResponse wraps segments in the 61 byte static header with the
// match separator in front of each segment.
func encodeResponse(segments ...[]byte) []byte {
	resp := bytes.Repeat([]byte{0xff}, 61)
	for _, seg := range segments {
		resp = append(resp, 0x01, 0x00, 0x00, 0x00)
		resp = append(resp, seg...)
	}
	return resp
}

func testMatch() domain.Match {
	return domain.Match{
		Floor:     domain.Floor7,
		Timestamp: time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC),
		Players: [2]domain.Player{
			{ID: 210611132841904307, Name: "alpha", Character: domain.CharSol},
			{ID: 210611132841904308, Name: "beta", Character: domain.CharBaiken},
		},
		Winner: domain.WinnerPlayer1,
	}
}

func TestDecodeShortBufferIsEmpty(t *testing.T) {
	d := NewDecoder()
	for _, n := range []int{0, 1, 30, 62} {
		matches, err := d.Decode(bytes.Repeat([]byte{0xab}, n))
		if err != nil {
			t.Fatalf("Decode(%d bytes) returned error: %v", n, err)
		}
		if len(matches) != 0 {
			t.Fatalf("Decode(%d bytes) = %d matches, want 0", n, len(matches))
		}
	}
}

func TestDecodeSingleSegment(t *testing.T) {
	d := NewDecoder()
	want := testMatch()

	matches, err := d.Decode(encodeResponse(encodeSegment(want)))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Decode = %d matches, want 1", len(matches))
	}

	got := matches[0]
	if !got.Equal(want) {
		t.Errorf("decoded match = %+v, want %+v", got, want)
	}
	if got.Winner != domain.WinnerPlayer1 {
		t.Errorf("winner = %s, want Player1", got.Winner)
	}
	if !got.Timestamp.Equal(time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("timestamp = %s, want 2023-01-01 12:00:00 UTC", got.Timestamp)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	d := NewDecoder()
	cases := []domain.Match{
		testMatch(),
		{
			Floor:     domain.FloorCelestial,
			Timestamp: time.Date(2022, 6, 15, 23, 59, 59, 0, time.UTC),
			Players: [2]domain.Player{
				{ID: 1, Name: "x", Character: domain.CharTestament},
				{ID: 999999999999999999, Name: "長い名前", Character: domain.CharZato},
			},
			Winner: domain.WinnerPlayer2,
		},
		{
			Floor:     domain.Floor1,
			Timestamp: time.Date(2023, 12, 31, 0, 0, 1, 0, time.UTC),
			Players: [2]domain.Player{
				{ID: 42, Name: "a b", Character: domain.CharINo},
				{ID: 43, Name: "c_d", Character: domain.CharMay},
			},
			Winner: domain.WinnerPlayer1,
		},
	}

	for i, want := range cases {
		matches, err := d.Decode(encodeResponse(encodeSegment(want)))
		if err != nil {
			t.Fatalf("case %d: Decode returned error: %v", i, err)
		}
		if len(matches) != 1 {
			t.Fatalf("case %d: Decode = %d matches, want 1", i, len(matches))
		}
		if !matches[0].Equal(want) {
			t.Errorf("case %d: round trip = %+v, want %+v", i, matches[0], want)
		}
	}
}

func TestDecodeMultipleSegments(t *testing.T) {
	d := NewDecoder()

	m1 := testMatch()
	m2 := testMatch()
	m2.Timestamp = m2.Timestamp.Add(time.Hour)
	m3 := testMatch()
	m3.Timestamp = m3.Timestamp.Add(2 * time.Hour)

	matches, err := d.Decode(encodeResponse(encodeSegment(m3), encodeSegment(m1), encodeSegment(m2)))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("Decode = %d matches, want 3", len(matches))
	}
}

func TestDecodeTruncatedSecondFragment(t *testing.T) {
	d := NewDecoder()

	var seg bytes.Buffer
	seg.Write([]byte{0x01, 0x00, 0x07})
	seg.Write([]byte{0x95, 0xb2})
	seg.WriteString("0123456789012345678") // 19 bytes, one short of the minimum
	seg.Write([]byte{0x95, 0xb2})
	full := encodeSegment(testMatch())
	seg.Write(full[bytes.LastIndex(full, []byte{0x95, 0xb2})+2:])

	_, err := d.Decode(encodeResponse(seg.Bytes()))
	var structural *StructuralError
	if !errors.As(err, &structural) {
		t.Fatalf("Decode error = %v, want StructuralError", err)
	}
	if !strings.Contains(structural.Msg, "second data part") {
		t.Errorf("error message %q does not name the second data part", structural.Msg)
	}
}

func TestDecodeUnknownFloorByte(t *testing.T) {
	d := NewDecoder()

	seg := encodeSegment(testMatch())
	// floor byte sits right before the first fragment marker
	i := bytes.Index(seg, []byte{0x95, 0xb2})
	seg[i-3] = 0x50

	_, err := d.Decode(encodeResponse(seg))
	var structural *StructuralError
	if !errors.As(err, &structural) {
		t.Fatalf("Decode error = %v, want StructuralError", err)
	}
	if !strings.Contains(err.Error(), "0x50") {
		t.Errorf("error %q does not identify the unmapped byte", err)
	}
}

func TestDecodeUnknownCharacterByte(t *testing.T) {
	d := NewDecoder()

	seg := encodeSegment(testMatch())
	i := bytes.Index(seg, []byte{0x95, 0xb2})
	seg[i-2] = 0xee

	_, err := d.Decode(encodeResponse(seg))
	var structural *StructuralError
	if !errors.As(err, &structural) {
		t.Fatalf("Decode error = %v, want StructuralError", err)
	}
	if !strings.Contains(err.Error(), "player 1") {
		t.Errorf("error %q does not name the player", err)
	}
}

func TestDecodeUnknownWinnerByte(t *testing.T) {
	d := NewDecoder()

	m := testMatch()
	seg := encodeSegment(m)
	// the winner byte sits right before the timestamp marker
	i := bytes.LastIndexByte(seg, 0xb3)
	seg[i-1] = 3

	_, err := d.Decode(encodeResponse(seg))
	var structural *StructuralError
	if !errors.As(err, &structural) {
		t.Fatalf("Decode error = %v, want StructuralError", err)
	}
}

func TestDecodeBadTimestamp(t *testing.T) {
	d := NewDecoder()

	seg := encodeSegment(testMatch())
	i := bytes.LastIndexByte(seg, 0xb3)
	copy(seg[i+1:], "not a timestamp 123")

	_, err := d.Decode(encodeResponse(seg))
	var structural *StructuralError
	if !errors.As(err, &structural) {
		t.Fatalf("Decode error = %v, want StructuralError", err)
	}
}

func TestDecodeFailureAbortsWholePage(t *testing.T) {
	d := NewDecoder()

	good := encodeSegment(testMatch())
	bad := encodeSegment(testMatch())
	i := bytes.Index(bad, []byte{0x95, 0xb2})
	bad[i-3] = 0x50

	matches, err := d.Decode(encodeResponse(good, bad))
	if err == nil {
		t.Fatal("Decode succeeded, want structural failure")
	}
	if matches != nil {
		t.Errorf("Decode returned %d matches alongside an error, want none", len(matches))
	}
}

func TestDecodeLossyName(t *testing.T) {
	d := NewDecoder()

	m := testMatch()
	m.Players[0].Name = "ab" // placeholder, corrupted below
	seg := encodeSegment(m)
	i := bytes.Index(seg, []byte{0x95, 0xb2})
	// first name byte, 19 bytes into the second fragment
	seg[i+2+19] = 0xfe

	matches, err := d.Decode(encodeResponse(seg))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if want := "�b"; matches[0].Players[0].Name != want {
		t.Errorf("lossy name = %q, want %q", matches[0].Players[0].Name, want)
	}
}

func TestStructuralErrorEscapesBytes(t *testing.T) {
	err := structuralf([]byte{0x95, 0xb2, 'a', 'b'}, nil, "bad fragment")
	if want := `bad fragment: \x95\xb2ab`; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
