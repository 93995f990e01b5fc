package wire

import (
	"encoding/hex"
	"fmt"

	"strive-tracker/internal/domain"
)

// Request payloads for the game service are a fixed byte template,
// transmitted hex-encoded in a form field, with the variable parts
// substituted positionally: the page index as two uppercase hex digits
// and the floor bounds as their two digit hex encodings.
const (
	replayQueryTemplate = "9295B2323131303237313133313233303038333834AD3631613565643466343631633202A5302E302E38039401CC%s0A9AFF00%s%s90FFFF000001"
	statsQueryTemplate  = "9295B2323131303237313133313233303038333834AD3631393064363236383739373702A5302E302E380396B2%s070101FFFFFF"
)

// ReplayQuery builds the form payload for one replay catalog page.
func ReplayQuery(page int, minFloor, maxFloor domain.Floor) string {
	return fmt.Sprintf(replayQueryTemplate, fmt.Sprintf("%02X", page), minFloor.Hex(), maxFloor.Hex())
}

// StatsQuery builds the form payload for a profile statistics lookup.
// The user id is embedded as the hex encoding of its ASCII digits.
func StatsQuery(userID string) string {
	return fmt.Sprintf(statsQueryTemplate, hex.EncodeToString([]byte(userID)))
}
