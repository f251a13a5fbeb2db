package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cartographer/internal/journal"
	"github.com/roach88/cartographer/internal/model"
	"github.com/roach88/cartographer/internal/notify"
	"github.com/roach88/cartographer/internal/testutil"
	"github.com/roach88/cartographer/internal/valuation"
)

func organic(stage, genus, species string) testutil.Fields {
	return testutil.Fields{
		"ScanType":          stage,
		"Genus_Localised":   genus,
		"Species_Localised": species,
		"SystemAddress":     addrX,
		"Body":              5,
	}
}

// bioSequence returns the queued values in order, then zero.
type bioSequence []int64

func (s *bioSequence) Value(string, string) (int64, bool) {
	if len(*s) == 0 {
		return 0, false
	}
	v := (*s)[0]
	*s = (*s)[1:]
	return v, true
}

func TestPromotion_MergesOnlyPresentRanks(t *testing.T) {
	e, _, rec := newTestEngine(t)
	b := testutil.NewBuilder()
	b.Add(journal.KindRank, testutil.Fields{"Combat": 3, "Trade": 2, "Explore": 5})
	b.Add(journal.KindPromotion, testutil.Fields{"Trade": 3})
	processAll(t, e, false, b.Events())

	ranks := e.Session().Commander().Ranks
	assert.Equal(t, 3, ranks.Combat)
	assert.Equal(t, 3, ranks.Trade)
	assert.Equal(t, 5, ranks.Explore)
	assert.Equal(t, []string{notify.CommanderUpdated, notify.CommanderUpdated}, rec.Names())
}

func TestCommanderEvents_ReplaceOwnSubObjectOnly(t *testing.T) {
	e, _, _ := newTestEngine(t)
	b := testutil.NewBuilder()
	b.Add(journal.KindLoadGame, testutil.Fields{"Commander": "Jameson", "FID": "F42", "Credits": 5000, "Loan": 0, "Ship": "DiamondBackXL", "Ship_Localised": "Diamondback Explorer", "GameMode": "Solo", "Odyssey": true})
	b.Add(journal.KindRank, testutil.Fields{"Combat": 2, "Explore": 7})
	b.Add(journal.KindProgress, testutil.Fields{"Explore": 40})
	b.Add(journal.KindReputation, testutil.Fields{"Federation": 25.5})
	b.Add(journal.KindPowerplay, testutil.Fields{"Power": "Aisling Duval", "Rank": 2, "Merits": 120})
	b.Add(journal.KindRank, testutil.Fields{"Combat": 3, "Explore": 7})
	processAll(t, e, false, b.Events())

	c := e.Session().Commander()
	assert.Equal(t, "Jameson", c.Name)
	assert.Equal(t, "F42", c.FID)
	assert.Equal(t, int64(5000), c.Credits)
	assert.Equal(t, "Diamondback Explorer", c.Ship)
	assert.Equal(t, 3, c.Ranks.Combat)
	assert.Equal(t, 40, c.Progress.Explore)
	assert.Equal(t, 25.5, c.Reputation.Federation)
	assert.Equal(t, "Aisling Duval", c.Powerplay.Power)

	g := e.Session().Game()
	assert.True(t, g.Running)
	assert.True(t, g.Odyssey)
	assert.Equal(t, "Solo", g.GameMode)
}

func TestCodexEntry_VoucherKeepsMaximum(t *testing.T) {
	e, st, rec := newTestEngine(t)
	codex := func(voucher int) testutil.Fields {
		return testutil.Fields{
			"EntryID":        2100401,
			"Name":           "$Codex_Ent_Bacterial_05_Name;",
			"Name_Localised": "Bacterium Aurasus",
			"Region":         "$Codex_RegionName_18;",
			"SystemAddress":  addrX,
			"VoucherAmount":  voucher,
		}
	}
	b := testutil.NewBuilder()
	b.Add(journal.KindCodexEntry, codex(100))
	b.Add(journal.KindCodexEntry, codex(50))
	processAll(t, e, false, b.Events())

	entry, err := st.GetCodexEntry(context.Background(), 2100401, "$Codex_RegionName_18;")
	require.NoError(t, err)
	assert.Equal(t, int64(100), entry.VoucherAmount)
	assert.Equal(t, "Bacterium Aurasus", entry.Name)
	assert.Equal(t, []string{notify.CodexEntry, notify.CodexEntry}, rec.Names())
}

func TestScanOrganic_ValueFloorAndProgress(t *testing.T) {
	values := bioSequence{1362000}
	e, st, _ := newTestEngine(t, WithBioValues(&values))
	b := testutil.NewBuilder()
	testutil.Jump(b, addrX, "Alpha", 12)
	testutil.PlanetScan(b, addrX, "Alpha", 5)
	b.Add(journal.KindScanOrganic, organic(journal.OrganicLog, "Stratum", "Stratum Tectonicas"))
	b.Add(journal.KindScanOrganic, organic(journal.OrganicSample, "Stratum", "Stratum Tectonicas"))
	processAll(t, e, false, b.Events())

	body := getBody(t, st, addrX, 5)
	bios, err := st.GetBiologicals(context.Background(), body.ID)
	require.NoError(t, err)
	require.Len(t, bios, 1)
	assert.Equal(t, int64(1362000), bios[0].Value)
	assert.Equal(t, 2, bios[0].ScanProgress)
	assert.False(t, bios[0].Scanned)
}

func TestScanOrganic_UnknownBodyGetsPlaceholder(t *testing.T) {
	e, st, rec := newTestEngine(t)
	ev := testutil.Event(journal.KindScanOrganic, testutil.Epoch, organic(journal.OrganicAnalyse, "Bacterium", "Bacterium Aurasus"))

	require.NoError(t, e.Process(context.Background(), ev, false))

	body := getBody(t, st, addrX, 5)
	assert.Equal(t, model.ScanNone, body.ScanType)
	assert.Equal(t, model.BodyUnknown, body.Type)
	bios, err := st.GetBiologicals(context.Background(), body.ID)
	require.NoError(t, err)
	require.Len(t, bios, 1)
	assert.True(t, bios[0].Scanned)
	assert.Equal(t, int64(1000000), bios[0].Value)
	assert.Equal(t, []string{notify.BioScanned}, rec.Names(), "no estimate for an unscanned body")
}

func TestScanOrganic_MismatchOnlyOnAnalyse(t *testing.T) {
	b := testutil.NewBuilder()
	testutil.Jump(b, addrX, "Alpha", 12)
	testutil.PlanetScan(b, addrX, "Alpha", 5)
	b.Add(journal.KindScanOrganic, organic(journal.OrganicLog, "Osseus", "Osseus Discus"))
	b.Add(journal.KindScanOrganic, organic(journal.OrganicSample, "Osseus", "Osseus Discus"))
	events := b.Events()

	e, _, rec := newTestEngine(t)
	processAll(t, e, false, events)
	assert.NotContains(t, rec.Names(), notify.ExobiologyMismatch)

	analyse := testutil.Event(journal.KindScanOrganic, events[len(events)-1].Time(), organic(journal.OrganicAnalyse, "Osseus", "Osseus Discus"))
	require.NoError(t, e.Process(context.Background(), analyse, false))

	var mismatch *MismatchPayload
	for _, n := range rec.Notifications() {
		if n.Name == notify.ExobiologyMismatch {
			p := n.Payload.(MismatchPayload)
			mismatch = &p
		}
	}
	require.NotNil(t, mismatch)
	assert.Equal(t, "Osseus Discus", mismatch.Actual.Species)
	assert.Equal(t, 5, mismatch.BodyID)
	assert.NotEmpty(t, mismatch.Predicted)
	assert.InDelta(t, 0.5, mismatch.Body.Gravity, 0.01)
}

func TestScanOrganic_PredictedSpeciesIsNotMismatch(t *testing.T) {
	e, _, rec := newTestEngine(t)
	b := testutil.NewBuilder()
	testutil.Jump(b, addrX, "Alpha", 12)
	testutil.PlanetScan(b, addrX, "Alpha", 5)
	b.Add(journal.KindScanOrganic, organic(journal.OrganicAnalyse, "Stratum", "Stratum Tectonicas"))
	processAll(t, e, false, b.Events())

	assert.NotContains(t, rec.Names(), notify.ExobiologyMismatch)
}

func TestScanOrganic_NoMismatchInBackfill(t *testing.T) {
	e, _, rec := newTestEngine(t)
	b := testutil.NewBuilder()
	testutil.Jump(b, addrX, "Alpha", 12)
	testutil.PlanetScan(b, addrX, "Alpha", 5)
	b.Add(journal.KindScanOrganic, organic(journal.OrganicAnalyse, "Osseus", "Osseus Discus"))
	processAll(t, e, true, b.Events())

	assert.Zero(t, rec.Len())
}

func TestEstimator_FailureDoesNotFailScan(t *testing.T) {
	e, st, _ := newTestEngine(t, WithEstimator(failingEstimator{}))
	b := testutil.NewBuilder()
	testutil.Jump(b, addrX, "Alpha", 12)
	testutil.Signals(b, addrX, "Alpha", 5, 2)
	testutil.PlanetScan(b, addrX, "Alpha", 5)
	b.Add(journal.KindScanOrganic, organic(journal.OrganicAnalyse, "Osseus", "Osseus Discus"))
	processAll(t, e, false, b.Events())

	assert.Equal(t, 2, getBody(t, st, addrX, 5).Signals.Biological)
}

type failingEstimator struct{}

func (failingEstimator) Estimate(valuation.BodyParams) ([]valuation.Candidate, error) {
	return nil, assert.AnError
}

func TestDisembark_MarksFootfall(t *testing.T) {
	e, st, rec := newTestEngine(t)
	b := testutil.NewBuilder()
	testutil.Jump(b, addrX, "Alpha", 12)
	testutil.PlanetScan(b, addrX, "Alpha", 5)
	b.Add(journal.KindTouchdown, testutil.Fields{"Body": "Alpha 5", "BodyID": 5, "SystemAddress": addrX, "OnPlanet": true, "Latitude": 12.5, "Longitude": -40.0})
	b.Add(journal.KindDisembark, testutil.Fields{"Body": "Alpha 5", "BodyID": 5, "SystemAddress": addrX, "OnPlanet": true})
	processAll(t, e, false, b.Events())

	body := getBody(t, st, addrX, 5)
	assert.True(t, body.WasFootfalled)
	assert.True(t, body.FootfalledByMe)
	assert.Equal(t, notify.BodyFootfalled, rec.Names()[rec.Len()-1])

	s := e.Session().Surface()
	assert.True(t, s.Landed)
	assert.True(t, s.OnFoot)
	assert.Equal(t, 12.5, s.Latitude)

	b2 := testutil.NewBuilder()
	b2.Add(journal.KindEmbark, testutil.Fields{"OnPlanet": true})
	b2.Add(journal.KindLiftoff, testutil.Fields{"Body": "Alpha 5", "BodyID": 5})
	processAll(t, e, false, b2.Events())
	assert.Equal(t, SurfaceState{}, e.Session().Surface())
}

func TestCarrierJump_SetsCarrierAndFSDJumpClearsIt(t *testing.T) {
	e, _, rec := newTestEngine(t)
	b := testutil.NewBuilder()
	b.Add(journal.KindCarrierJump, testutil.Fields{
		"StarSystem": "Alpha", "SystemAddress": addrX, "StarPos": []float64{1, 1, 1},
		"Docked": true, "StationName": "K7Q-1HT", "StationType": "FleetCarrier", "MarketID": 3700000001,
	})
	processAll(t, e, false, b.Events())

	c := e.Session().Carrier()
	assert.True(t, c.OnCarrier)
	assert.Equal(t, "K7Q-1HT", c.Name)
	assert.Equal(t, []string{notify.SystemChanged, notify.CarrierJumped}, rec.Names())

	b2 := testutil.NewBuilder()
	testutil.Jump(b2, addrY, "Beta", 20)
	processAll(t, e, false, b2.Events())
	assert.Equal(t, CarrierState{}, e.Session().Carrier())
}

func TestDockedAtCarrier(t *testing.T) {
	e, _, _ := newTestEngine(t)
	b := testutil.NewBuilder()
	b.Add(journal.KindDocked, testutil.Fields{"StationName": "Jameson Memorial", "StationType": "Orbis", "MarketID": 128666762})
	processAll(t, e, false, b.Events())
	assert.False(t, e.Session().Carrier().OnCarrier)

	b = testutil.NewBuilder()
	b.Add(journal.KindDocked, testutil.Fields{"StationName": "K7Q-1HT", "StationType": "FleetCarrier", "MarketID": 3700000001})
	b.Add(journal.KindUndocked, testutil.Fields{"StationName": "K7Q-1HT", "StationType": "FleetCarrier", "MarketID": 3700000001})
	events := b.Events()
	processAll(t, e, false, events[:1])
	assert.True(t, e.Session().Carrier().Docked)
	processAll(t, e, false, events[1:])
	assert.False(t, e.Session().Carrier().OnCarrier)
}

func TestAllBodiesFoundAndDiscoveryScan(t *testing.T) {
	e, st, rec := newTestEngine(t)
	b := testutil.NewBuilder()
	b.Add(journal.KindFSSDiscoveryScan, testutil.Fields{"SystemAddress": addrX, "SystemName": "Alpha", "BodyCount": 7})
	b.Add(journal.KindFSSAllBodiesFound, testutil.Fields{"SystemAddress": addrX, "SystemName": "Alpha", "Count": 7})
	processAll(t, e, false, b.Events())

	sys, err := st.GetSystemByAddress(context.Background(), addrX)
	require.NoError(t, err)
	require.NotNil(t, sys.BodyCount)
	assert.Equal(t, 7, *sys.BodyCount)
	assert.True(t, sys.AllBodiesFound)
	require.Equal(t, []string{notify.AllBodiesFound}, rec.Names())
	assert.Equal(t, AllBodiesFoundPayload{SystemAddress: addrX, SystemName: "Alpha", Count: 7}, rec.Notifications()[0].Payload)
}

func TestDiscoveryScan_OnlySetsBodyCount(t *testing.T) {
	e, st, rec := newTestEngine(t)
	ctx := context.Background()
	b := testutil.NewBuilder()
	testutil.Jump(b, addrX, "Alpha", 12)
	b.Add(journal.KindFSSDiscoveryScan, testutil.Fields{"SystemAddress": addrX, "SystemName": "Alpha", "BodyCount": 4})
	events := b.Events()

	processAll(t, e, false, events[:1])
	before, err := st.GetSystemByAddress(ctx, addrX)
	require.NoError(t, err)
	rec.Reset()

	processAll(t, e, false, events[1:])
	after, err := st.GetSystemByAddress(ctx, addrX)
	require.NoError(t, err)
	require.NotNil(t, after.BodyCount)
	assert.Equal(t, 4, *after.BodyCount)
	assert.Equal(t, before.LastVisited, after.LastVisited)
	assert.Equal(t, before.FirstVisited, after.FirstVisited)
	assert.Zero(t, rec.Len())
}

func TestNavRoute(t *testing.T) {
	e, _, rec := newTestEngine(t)
	b := testutil.NewBuilder()
	b.Add(journal.KindNavRoute, testutil.Fields{"Route": []testutil.Fields{}})
	b.Add(journal.KindNavRoute, testutil.Fields{"Route": []testutil.Fields{
		{"StarSystem": "Start", "SystemAddress": 1},
		{"StarSystem": "Alpha", "SystemAddress": addrX},
		{"StarSystem": "Beta", "SystemAddress": addrY},
		{"StarSystem": "Gamma", "SystemAddress": 3003},
	}})
	testutil.Jump(b, addrX, "Alpha", 12)
	events := b.Events()
	processAll(t, e, false, events)

	r := e.Session().Route()
	assert.Equal(t, "Gamma", r.Destination)
	assert.Equal(t, 3, r.TotalJumps)
	assert.Equal(t, 2, r.RemainingJumps)

	b2 := testutil.NewBuilder()
	b2.Add(journal.KindNavRouteClear, nil)
	processAll(t, e, false, b2.Events())
	assert.False(t, e.Session().Route().Active())
	assert.Equal(t, []string{notify.RoutePlotted, notify.SystemChanged, notify.RouteCleared}, rec.Names())
}

func TestFSDJump_ArrivingAtDestinationClearsRoute(t *testing.T) {
	e, _, _ := newTestEngine(t)
	b := testutil.NewBuilder()
	b.Add(journal.KindNavRoute, testutil.Fields{"Route": []testutil.Fields{
		{"StarSystem": "Start", "SystemAddress": 1},
		{"StarSystem": "Alpha", "SystemAddress": addrX},
		{"StarSystem": "Beta", "SystemAddress": addrY},
	}})
	// Skipping the intermediate hop still finishes the route.
	testutil.Jump(b, addrY, "Beta", 40)
	processAll(t, e, false, b.Events())

	assert.False(t, e.Session().Route().Active())
}
