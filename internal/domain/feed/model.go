package feed

import "errors"

// PageSize is the fixed number of clips added per page.
const PageSize = 10

var (
	ErrUnknownCategory = errors.New("unknown feed category")
	ErrIndexOutOfRange = errors.New("feed index out of range")
)

// SourceClip is one clip of a match before it is assigned a feed identity.
type SourceClip struct {
	GameID        string
	SourceEventID string
	Season        string
	Action        string
	VideoURI      string
	MatchLabel    string
	TeamLabel     string
	Score         string
}

// Item is one playable clip of the aggregated feed.
type Item struct {
	ID          string
	VideoURI    string
	MatchLabel  string
	CategoryTag string
	Score       string
	TeamLabel   string
	GameID      string
	Season      string
	Action      string
}
