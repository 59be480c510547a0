package matchevent

type Category string

const (
	CategoryGoal             Category = "goal"
	CategoryCard             Category = "card"
	CategorySubstitution     Category = "substitution"
	CategoryMedicalTreatment Category = "medical_treatment"
	CategoryNeutralMarker    Category = "neutral_marker"
	CategoryGeneric          Category = "generic"
)

type CardKind string

const (
	CardYellow CardKind = "yellow"
	CardRed    CardKind = "red"
)

type MarkerKind string

const (
	MarkerHalfTime MarkerKind = "half_time"
	MarkerFullTime MarkerKind = "full_time"
)

// RawClip is the playlist reference of an event as delivered upstream. Any field may be absent.
type RawClip struct {
	VideoAssetID  *int64
	FromTimestamp *int64
	ToTimestamp   *int64
}

// RawEvent is one match occurrence as delivered by the data provider. Every field is optional.
type RawEvent struct {
	EventID         *string
	Action          *string
	TeamID          *string
	TeamName        *string
	Scorer          *string
	Player          *string
	AssistBy        *string
	Keeper          *string
	ShotType        *string
	OnTarget        *string
	PlayerIn        *string
	PlayerOut       *string
	GameTimeSeconds *int
	Score           *string
	Clip            *RawClip
}

// Clip bounds of a playable video segment.
type Clip struct {
	VideoAssetID  int64
	FromTimestamp int64
	ToTimestamp   int64
}

type Goal struct {
	Scorer     string
	Assist     string
	Keeper     string
	ShotType   string
	IsOwnGoal  bool
	ScoreAfter string
}

type Card struct {
	Kind   CardKind
	Player string
}

type Substitution struct {
	PlayerIn  string
	PlayerOut string
}

type MedicalTreatment struct {
	Player string
}

type NeutralMarker struct {
	Kind MarkerKind
}

type Generic struct {
	Label    string
	Player   string
	OnTarget bool
}

// ClassifiedEvent carries exactly one non-nil payload, the one matching Category.
type ClassifiedEvent struct {
	Category        Category
	Action          string
	Clip            Clip
	GameTimeSeconds int
	Score           string

	Goal             *Goal
	Card             *Card
	Substitution     *Substitution
	MedicalTreatment *MedicalTreatment
	NeutralMarker    *NeutralMarker
	Generic          *Generic
}

// Minute is the display minute, floor(gameTimeSeconds / 60).
func (e ClassifiedEvent) Minute() int {
	if e.GameTimeSeconds <= 0 {
		return 0
	}
	return e.GameTimeSeconds / 60
}
