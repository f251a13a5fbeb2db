package journal

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_FSDJump(t *testing.T) {
	line := `{"timestamp":"2024-05-01T10:00:00Z","event":"FSDJump","StarSystem":"Colonia","SystemAddress":3238296097059,"StarPos":[-9530.5,-910.28,19808.125],"JumpDist":42.5,"FuelUsed":3.2,"FuelLevel":28.8}`

	ev, err := Decode([]byte(line))
	require.NoError(t, err)

	jump, ok := ev.(FSDJump)
	require.True(t, ok, "got %T", ev)
	assert.Equal(t, KindFSDJump, jump.Kind())
	assert.Equal(t, "Colonia", jump.StarSystem)
	assert.Equal(t, int64(3238296097059), jump.SystemAddress)
	assert.InDelta(t, -9530.5, jump.StarPos.Position().X, 1e-9)
	assert.InDelta(t, 42.5, jump.JumpDist, 1e-9)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), jump.Time())
}

func TestDecode_UnknownEventIsNotAnError(t *testing.T) {
	ev, err := Decode([]byte(`{"timestamp":"2024-05-01T10:00:00Z","event":"Music","MusicTrack":"Exploration"}`))
	require.NoError(t, err)

	unknown, ok := ev.(Unknown)
	require.True(t, ok)
	assert.Equal(t, "Music", unknown.Event)
	assert.Contains(t, string(unknown.Raw), "MusicTrack")
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte(`{"event":`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"timestamp":"2024-05-01T10:00:00Z"}`))
	assert.Error(t, err)
}

func TestDecode_PromotionKeepsAbsentRanksNil(t *testing.T) {
	ev, err := Decode([]byte(`{"timestamp":"2024-05-01T10:00:00Z","event":"Promotion","Trade":3}`))
	require.NoError(t, err)

	promo := ev.(Promotion)
	require.NotNil(t, promo.Trade)
	assert.Equal(t, 3, *promo.Trade)
	assert.Nil(t, promo.Combat)
	assert.Nil(t, promo.Explore)
}

func TestDecode_ScanHelpers(t *testing.T) {
	line := `{"timestamp":"2024-05-01T10:00:00Z","event":"Scan","ScanType":"Detailed","BodyName":"Sol 3","BodyID":3,"Parents":[{"Null":1},{"Star":0}],"SystemAddress":10477373803,"PlanetClass":"Earthlike body","TerraformState":"Terraformable","MassEM":1.0,"Rings":[{"Name":"Sol 3 A Ring","RingClass":"eRingClass_Rocky","MassMT":1.0,"InnerRad":1.0,"OuterRad":2.0}]}`

	ev, err := Decode([]byte(line))
	require.NoError(t, err)
	scan := ev.(Scan)

	require.NotNil(t, scan.ParentID())
	assert.Equal(t, 1, *scan.ParentID())
	assert.True(t, scan.Terraformable())
	assert.Equal(t, "Earthlike body", scan.SubType())
	require.NotNil(t, scan.Mass())

	snap := scan.Snapshot()
	require.Len(t, snap.Rings, 1)
	assert.Equal(t, "eRingClass_Rocky", snap.Rings[0].Class)
}

func TestCountSignals(t *testing.T) {
	counts := CountSignals([]Signal{
		{Type: SignalBiological, Count: 3},
		{Type: SignalGeological, Count: 2},
		{Type: "$SAA_SignalType_Guardian;", Count: 1},
		{Type: SignalHuman, Count: 1},
	})
	assert.Equal(t, 3, counts.Biological)
	assert.Equal(t, 2, counts.Geological)
	assert.Equal(t, 1, counts.Human)
	assert.Equal(t, 0, counts.Thargoid)
}

func TestScanOrganic_Progress(t *testing.T) {
	assert.Equal(t, 1, ScanOrganic{ScanType: OrganicLog}.Progress())
	assert.Equal(t, 2, ScanOrganic{ScanType: OrganicSample}.Progress())
	assert.Equal(t, 3, ScanOrganic{ScanType: OrganicAnalyse}.Progress())
	assert.Equal(t, 0, ScanOrganic{ScanType: "Bogus"}.Progress())
}

func TestKinds_CoversEveryHandledEvent(t *testing.T) {
	kinds := Kinds()
	assert.Len(t, kinds, 30)
	assert.Contains(t, kinds, KindScanOrganic)
}

func TestReader_SkipsBlankLinesAndReportsLineNumbers(t *testing.T) {
	input := strings.Join([]string{
		`{"timestamp":"2024-05-01T10:00:00Z","event":"Continued","Part":2}`,
		``,
		`{"event":`,
		`{"timestamp":"2024-05-01T10:00:01Z","event":"Shutdown"}`,
	}, "\n")
	r := NewReader(strings.NewReader(input), "test.log")

	ev, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, KindContinued, ev.Kind())

	_, err = r.Next()
	var decErr *DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, 3, decErr.Line)
	assert.Equal(t, "test.log", decErr.Source)

	ev, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, KindShutdown, ev.Kind())

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestFiles_OrdersJournalFilesInDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"Journal.2024-05-02T100000.01.log",
		"Journal.2024-05-01T100000.01.log",
		"Status.json",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}\n"), 0644))
	}

	files, err := Files(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "Journal.2024-05-01T100000.01.log", filepath.Base(files[0]))
	assert.Equal(t, "Journal.2024-05-02T100000.01.log", filepath.Base(files[1]))

	_, err = Files(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
