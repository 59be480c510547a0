package feed

import (
	"strconv"
	"strings"

	"github.com/valyala/bytebufferpool"
)

// Compose flattens per-match clip sets in order. Item ids are
// "{gameId}-{sourceEventId}-{localIndex}" with localIndex counted within the match set.
func Compose(sets [][]SourceClip) []Item {
	total := 0
	for _, set := range sets {
		total += len(set)
	}

	items := make([]Item, 0, total)
	for _, set := range sets {
		for localIndex, clip := range set {
			items = append(items, Item{
				ID:          ItemID(clip.GameID, clip.SourceEventID, localIndex),
				VideoURI:    clip.VideoURI,
				MatchLabel:  clip.MatchLabel,
				CategoryTag: categoryTag(clip.Action),
				Score:       clip.Score,
				TeamLabel:   clip.TeamLabel,
				GameID:      clip.GameID,
				Season:      clip.Season,
				Action:      clip.Action,
			})
		}
	}
	return items
}

func ItemID(gameID, sourceEventID string, localIndex int) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(gameID)
	_ = buf.WriteByte('-')
	_, _ = buf.WriteString(sourceEventID)
	_ = buf.WriteByte('-')
	buf.B = strconv.AppendInt(buf.B, int64(localIndex), 10)
	return buf.String()
}

// DuplicateIDs lists every id seen more than once, in first-occurrence order.
func DuplicateIDs(items []Item) []string {
	seen := make(map[string]int, len(items))
	var dups []string
	for _, item := range items {
		seen[item.ID]++
		if seen[item.ID] == 2 {
			dups = append(dups, item.ID)
		}
	}
	return dups
}

func categoryTag(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}
