package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/matchreel/internal/platform/logging"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFixtureService_ListOmitsFailedDetails(t *testing.T) {
	t.Parallel()

	sheets := &mockSheetSource{}
	sheets.On("FetchRows", mock.Anything).Return([][]string{
		{"2024", "goal", "AIK", "MFF", "g1", "1", "u1"},
		{"2024", "goal", "AIK", "MFF", "g1", "2", "u2"},
		{"2024", "goal", "HIF", "IFK", "g2", "3", "u3"},
		{"2024", "short"},
		{"2024", "goal", "BK", "DIF", "g3", "4", "u4"},
	}, nil)

	provider := &mockMatchProvider{}
	provider.On("FetchMatchDetail", mock.Anything, "g1").Return(detailFor("g1", "AIK", "Malmo FF"), nil)
	provider.On("FetchMatchDetail", mock.Anything, "g2").Return(MatchDetail{}, errors.New("timeout"))
	provider.On("FetchMatchDetail", mock.Anything, "g3").Return(detailFor("g3", "Hacken", "Djurgarden"), nil)

	svc := NewFixtureService(sheets, provider, 2, nil, logging.NewNop())
	list, err := svc.List(context.Background())
	require.NoError(t, err)

	require.Len(t, list.Fixtures, 2)
	require.Equal(t, "g1", list.Fixtures[0].GameID)
	require.Equal(t, "AIK", list.Fixtures[0].HomeTeam)
	require.Equal(t, 2, list.Fixtures[0].HomeGoals)
	require.Equal(t, "g3", list.Fixtures[1].GameID)
	require.True(t, list.Partial)
	require.Equal(t, []string{"g2"}, list.Missing)
	provider.AssertNumberOfCalls(t, "FetchMatchDetail", 3)
}

func TestFixtureService_ListFailsWhenSheetFails(t *testing.T) {
	t.Parallel()

	sheets := &mockSheetSource{}
	sheets.On("FetchRows", mock.Anything).Return(nil, errors.New("403"))
	provider := &mockMatchProvider{}

	svc := NewFixtureService(sheets, provider, 2, nil, logging.NewNop())
	_, err := svc.List(context.Background())
	require.ErrorIs(t, err, ErrTotalLoadFailure)
	require.ErrorIs(t, err, ErrDependencyUnavailable)
	provider.AssertNotCalled(t, "FetchMatchDetail", mock.Anything, mock.Anything)
}

func TestFixtureService_EmptySheet(t *testing.T) {
	t.Parallel()

	sheets := &mockSheetSource{}
	sheets.On("FetchRows", mock.Anything).Return([][]string{}, nil)

	svc := NewFixtureService(sheets, &mockMatchProvider{}, 0, nil, logging.NewNop())
	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, list.Fixtures)
	require.False(t, list.Partial)
}
