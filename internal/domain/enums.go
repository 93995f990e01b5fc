package domain

import "fmt"

// Floor is the ranked floor a match was played on, as encoded by the game
// server. Floors 1-10 map directly to their byte value, Celestial is 99.
type Floor uint8

const (
	Floor1  Floor = 1
	Floor2  Floor = 2
	Floor3  Floor = 3
	Floor4  Floor = 4
	Floor5  Floor = 5
	Floor6  Floor = 6
	Floor7  Floor = 7
	Floor8  Floor = 8
	Floor9  Floor = 9
	Floor10 Floor = 10

	FloorCelestial Floor = 99
)

func FloorFromByte(b byte) (Floor, error) {
	f := Floor(b)
	if (f >= Floor1 && f <= Floor10) || f == FloorCelestial {
		return f, nil
	}
	return 0, fmt.Errorf("unknown floor byte 0x%02x", b)
}

// Hex renders the floor as the two uppercase hex digits the replay query
// payload expects.
func (f Floor) Hex() string {
	return fmt.Sprintf("%02X", uint8(f))
}

func (f Floor) String() string {
	if f == FloorCelestial {
		return "Celestial"
	}
	return fmt.Sprintf("F%d", uint8(f))
}

// Character is a playable character, numbered in roster order by the game
// server.
type Character uint8

const (
	CharSol Character = iota
	CharKy
	CharMay
	CharAxl
	CharChipp
	CharPotemkin
	CharFaust
	CharMillia
	CharZato
	CharRamlethal
	CharLeo
	CharNagoriyuki
	CharGiovanna
	CharAnji
	CharINo
	CharGoldlewis
	CharJackO
	CharHappyChaos
	CharBaiken
	CharTestament
)

var characterNames = map[Character]string{
	CharSol:        "Sol Badguy",
	CharKy:         "Ky Kiske",
	CharMay:        "May",
	CharAxl:        "Axl Low",
	CharChipp:      "Chipp Zanuff",
	CharPotemkin:   "Potemkin",
	CharFaust:      "Faust",
	CharMillia:     "Millia Rage",
	CharZato:       "Zato-1",
	CharRamlethal:  "Ramlethal Valentine",
	CharLeo:        "Leo Whitefang",
	CharNagoriyuki: "Nagoriyuki",
	CharGiovanna:   "Giovanna",
	CharAnji:       "Anji Mito",
	CharINo:        "I-No",
	CharGoldlewis:  "Goldlewis Dickinson",
	CharJackO:      "Jack-O'",
	CharHappyChaos: "Happy Chaos",
	CharBaiken:     "Baiken",
	CharTestament:  "Testament",
}

func CharacterFromByte(b byte) (Character, error) {
	c := Character(b)
	if _, ok := characterNames[c]; !ok {
		return 0, fmt.Errorf("unknown character byte 0x%02x", b)
	}
	return c, nil
}

func (c Character) String() string {
	if name, ok := characterNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Character(%d)", uint8(c))
}

// Winner indicates which side of a match won. The wire format encodes it
// as a literal 1 or 2.
type Winner uint8

const (
	WinnerPlayer1 Winner = 1
	WinnerPlayer2 Winner = 2
)

func WinnerFromByte(b byte) (Winner, error) {
	switch w := Winner(b); w {
	case WinnerPlayer1, WinnerPlayer2:
		return w, nil
	default:
		return 0, fmt.Errorf("unknown winner byte 0x%02x", b)
	}
}

func (w Winner) String() string {
	switch w {
	case WinnerPlayer1:
		return "Player1"
	case WinnerPlayer2:
		return "Player2"
	default:
		return fmt.Sprintf("Winner(%d)", uint8(w))
	}
}
