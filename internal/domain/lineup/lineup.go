package lineup

// StartersPerSide is how many listed players start; the provider lists starters first.
const StartersPerSide = 11

type Player struct {
	ID          string
	Name        string
	ShirtNumber int
}

type Side struct {
	TeamID      string
	TeamName    string
	Starters    []Player
	Substitutes []Player
}

type Lineup struct {
	GameID string
	Home   Side
	Away   Side
}

// Split divides a side's player list into starters and substitutes by position in the list.
func Split(players []Player) (starters, substitutes []Player) {
	cut := min(len(players), StartersPerSide)
	starters = make([]Player, cut)
	copy(starters, players[:cut])
	substitutes = make([]Player, len(players)-cut)
	copy(substitutes, players[cut:])
	return starters, substitutes
}

func NewSide(teamID, teamName string, players []Player) Side {
	starters, substitutes := Split(players)
	return Side{
		TeamID:      teamID,
		TeamName:    teamName,
		Starters:    starters,
		Substitutes: substitutes,
	}
}
