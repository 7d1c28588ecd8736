package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const playerFixture = `<html><body>
<div class="player-header"><img src="/img/p11.png"><h1 class="nickname">midboy</h1></div>
<div class="about">
  <div class="item"><div class="label">Real name</div><div class="value">Ivan Petrov</div></div>
  <div class="item"><div class="label">Country</div><div class="value">Ukraine</div></div>
</div>
<div class="stats">
  <div class="item"><div class="label">Matches</div><div class="value">540</div></div>
  <div class="item"><div class="label">Wins</div><div class="value">300</div></div>
  <div class="item"><div class="label">Losses</div><div class="value">240</div></div>
  <div class="item"><div class="label">Kills</div><div class="value">7.8</div></div>
  <div class="item"><div class="label">Deaths</div><div class="value">4.1</div></div>
  <div class="item"><div class="label">Assists</div><div class="value">11.3</div></div>
  <div class="item"><div class="label">GPM</div><div class="value">612</div></div>
  <div class="item"><div class="label">XPM</div><div class="value">701</div></div>
</div>
</body></html>`

func TestPlayer(t *testing.T) {
	t.Parallel()

	player, err := Player([]byte(playerFixture), "11")
	require.NoError(t, err)

	require.Equal(t, "11", player.PlayerID)
	require.Equal(t, "midboy", player.Nickname)
	require.Equal(t, "Ivan Petrov", player.RealName)
	require.Equal(t, "Ukraine", player.Country)
	require.Equal(t, "/img/p11.png", player.AvatarURL)
}

func TestPlayerStats(t *testing.T) {
	t.Parallel()

	ps, err := PlayerStats([]byte(playerFixture), "11")
	require.NoError(t, err)

	require.Equal(t, 540, ps.TotalMatches)
	require.Equal(t, 300, ps.Wins)
	require.Equal(t, 240, ps.Losses)
	require.InDelta(t, 7.8, ps.AvgKills, 1e-9)
	require.InDelta(t, 4.1, ps.AvgDeaths, 1e-9)
	require.InDelta(t, 11.3, ps.AvgAssists, 1e-9)
	require.InDelta(t, 612.0, ps.AvgGPM, 1e-9)
	require.InDelta(t, 701.0, ps.AvgXPM, 1e-9)
}

func TestPlayerStatsWinrateNoDivisionByZero(t *testing.T) {
	t.Parallel()

	fixture := `<html><body><div class="stats">
	  <div class="item"><div class="label">Wins</div><div class="value">40</div></div>
	</div></body></html>`

	ps, err := PlayerStats([]byte(fixture), "11")
	require.NoError(t, err)
	require.Equal(t, 40, ps.Wins)
	require.Zero(t, ps.TotalMatches)
	require.Zero(t, ps.WinratePercent())
}

func TestPlayerMissingAnchor(t *testing.T) {
	t.Parallel()

	_, err := Player([]byte(`<html><body></body></html>`), "11")
	require.ErrorIs(t, err, ErrAnchorMissing)

	_, err = PlayerStats([]byte(`<html><body></body></html>`), "11")
	require.ErrorIs(t, err, ErrAnchorMissing)
}
