package usecase

import (
	"context"
	"strconv"

	"github.com/riskibarqy/matchreel/internal/domain/matchevent"
	"github.com/stretchr/testify/mock"
)

type mockSheetSource struct {
	mock.Mock
}

func (m *mockSheetSource) FetchRows(ctx context.Context) ([][]string, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([][]string)
	return rows, args.Error(1)
}

type mockMatchProvider struct {
	mock.Mock
}

func (m *mockMatchProvider) FetchMatchDetail(ctx context.Context, gameID string) (MatchDetail, error) {
	args := m.Called(ctx, gameID)
	detail, _ := args.Get(0).(MatchDetail)
	return detail, args.Error(1)
}

func (m *mockMatchProvider) FetchMatchEvents(ctx context.Context, gameID string) ([]matchevent.RawEvent, error) {
	args := m.Called(ctx, gameID)
	events, _ := args.Get(0).([]matchevent.RawEvent)
	return events, args.Error(1)
}

func (m *mockMatchProvider) FetchLineup(ctx context.Context, gameID string) (ExternalLineup, error) {
	args := m.Called(ctx, gameID)
	sheet, _ := args.Get(0).(ExternalLineup)
	return sheet, args.Error(1)
}

func (m *mockMatchProvider) ClipURI(clip matchevent.Clip) string {
	return "https://video.test/" + strconv.FormatInt(clip.VideoAssetID, 10) + ":" +
		strconv.FormatInt(clip.FromTimestamp, 10) + ":" + strconv.FormatInt(clip.ToTimestamp, 10)
}

func detailFor(gameID, home, away string) MatchDetail {
	return MatchDetail{
		GameID:    gameID,
		HomeTeam:  TeamRef{ID: "h-" + gameID, Name: home},
		AwayTeam:  TeamRef{ID: "a-" + gameID, Name: away},
		HomeGoals: 2,
		AwayGoals: 1,
	}
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func rawEvent(action, teamID string, from int64) matchevent.RawEvent {
	return matchevent.RawEvent{
		Action:          strPtr(action),
		TeamID:          strPtr(teamID),
		GameTimeSeconds: intPtr(int(from)),
		Clip: &matchevent.RawClip{
			VideoAssetID:  int64Ptr(77),
			FromTimestamp: int64Ptr(from),
			ToTimestamp:   int64Ptr(from + 10),
		},
	}
}
