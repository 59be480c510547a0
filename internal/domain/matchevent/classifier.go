package matchevent

import "strings"

type classifyFunc func(raw RawEvent, base ClassifiedEvent) ClassifiedEvent

// dispatch keys are trimmed, lowercased action texts. Unknown actions become Generic.
var dispatch = map[string]classifyFunc{
	"goal":              classifyGoal,
	"yellow card":       classifyCard(CardYellow),
	"red card":          classifyCard(CardRed),
	"substitution":      classifySubstitution,
	"medical treatment": classifyMedical,
	"end phase":         classifyMarker(MarkerHalfTime),
	"end of game":       classifyMarker(MarkerFullTime),
}

// Classify maps a raw event to its category. It reports false when the action or any
// clip field is absent; such events are never represented.
func Classify(raw RawEvent) (ClassifiedEvent, bool) {
	action := value(raw.Action)
	if action == "" || raw.Clip == nil {
		return ClassifiedEvent{}, false
	}
	if raw.Clip.VideoAssetID == nil || raw.Clip.FromTimestamp == nil || raw.Clip.ToTimestamp == nil {
		return ClassifiedEvent{}, false
	}

	base := ClassifiedEvent{
		Action: action,
		Clip: Clip{
			VideoAssetID:  *raw.Clip.VideoAssetID,
			FromTimestamp: *raw.Clip.FromTimestamp,
			ToTimestamp:   *raw.Clip.ToTimestamp,
		},
		Score: value(raw.Score),
	}
	if raw.GameTimeSeconds != nil {
		base.GameTimeSeconds = *raw.GameTimeSeconds
	}

	if fn, ok := dispatch[strings.ToLower(action)]; ok {
		return fn(raw, base), true
	}

	base.Category = CategoryGeneric
	base.Generic = &Generic{
		Label:    strings.ToUpper(action),
		Player:   ResolveScorer(raw),
		OnTarget: IsTruthy(value(raw.OnTarget)),
	}
	return base, true
}

// ResolveScorer prefers the explicit scorer, then the generic player field.
func ResolveScorer(raw RawEvent) string {
	if scorer := value(raw.Scorer); scorer != "" {
		return scorer
	}
	return value(raw.Player)
}

// IsTruthy reads bool-like provider strings.
func IsTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "y", "1", "on target":
		return true
	default:
		return false
	}
}

func classifyGoal(raw RawEvent, base ClassifiedEvent) ClassifiedEvent {
	shotType := value(raw.ShotType)
	base.Category = CategoryGoal
	base.Goal = &Goal{
		Scorer:     ResolveScorer(raw),
		Assist:     value(raw.AssistBy),
		Keeper:     value(raw.Keeper),
		ShotType:   shotType,
		IsOwnGoal:  strings.EqualFold(shotType, "own goal"),
		ScoreAfter: base.Score,
	}
	return base
}

func classifyCard(kind CardKind) classifyFunc {
	return func(raw RawEvent, base ClassifiedEvent) ClassifiedEvent {
		base.Category = CategoryCard
		base.Card = &Card{Kind: kind, Player: ResolveScorer(raw)}
		return base
	}
}

func classifySubstitution(raw RawEvent, base ClassifiedEvent) ClassifiedEvent {
	base.Category = CategorySubstitution
	base.Substitution = &Substitution{
		PlayerIn:  value(raw.PlayerIn),
		PlayerOut: value(raw.PlayerOut),
	}
	return base
}

func classifyMedical(raw RawEvent, base ClassifiedEvent) ClassifiedEvent {
	base.Category = CategoryMedicalTreatment
	base.MedicalTreatment = &MedicalTreatment{Player: ResolveScorer(raw)}
	return base
}

func classifyMarker(kind MarkerKind) classifyFunc {
	return func(_ RawEvent, base ClassifiedEvent) ClassifiedEvent {
		base.Category = CategoryNeutralMarker
		base.NeutralMarker = &NeutralMarker{Kind: kind}
		return base
	}
}

func value(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
