package attendance

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/your-org/attendance/internal/liveness"
	"github.com/your-org/attendance/internal/models"
	"github.com/your-org/attendance/internal/recognize"
)

type memBacking struct{}

func (memBacking) LoadEncodings(ctx context.Context) ([]models.EmployeeEncodings, error) {
	return nil, nil
}
func (memBacking) SaveEncodings(ctx context.Context, id, name string, encodings [][]float32, photoKeys []string) error {
	return nil
}
func (memBacking) DeleteEmployee(ctx context.Context, id string) error { return nil }

type fakeAnalyzer struct {
	ear      float64
	earFound bool
	enc      []float32
	encFound bool
	err      error
	encCalls int
	earCalls int
}

func (f *fakeAnalyzer) EyeState(img image.Image) (float64, bool, error) {
	f.earCalls++
	return f.ear, f.earFound, f.err
}

func (f *fakeAnalyzer) Encoding(img image.Image) ([]float32, bool, error) {
	f.encCalls++
	return f.enc, f.encFound, f.err
}

type fakePublisher struct {
	events []models.AttendanceEvent
	err    error
}

func (f *fakePublisher) PublishAttendance(ctx context.Context, employeeID string, data interface{}) error {
	if f.err != nil {
		return f.err
	}
	if evt, ok := data.(models.AttendanceEvent); ok {
		f.events = append(f.events, evt)
	}
	return nil
}

var testFrame = image.NewRGBA(image.Rect(0, 0, 4, 4))

func newTestPipeline(t *testing.T, analyzer Analyzer, store *fakeStore, pub Publisher) *Pipeline {
	t.Helper()
	cache := recognize.NewCache(memBacking{})
	require.NoError(t, cache.Upsert(context.Background(), "e1", "Ann", [][]float32{{1, 0, 0}}, nil))

	engine := NewEngine(store, DefaultOptions(), discardLogger())
	debounce := NewDebounce(5 * time.Second)
	return NewPipeline(analyzer, cache, debounce, engine, pub, PipelineOptions{
		MatchTolerance: 0.5,
		StoreTimeout:   time.Second,
	}, discardLogger())
}

func TestLivenessGateBlocksMatching(t *testing.T) {
	analyzer := &fakeAnalyzer{ear: 0.3, earFound: true, enc: []float32{1, 0, 0}, encFound: true}
	p := newTestPipeline(t, analyzer, &fakeStore{}, nil)

	tracker := liveness.NewTracker(liveness.DefaultConfig())
	outcome, err := p.Process(context.Background(), tracker, testFrame, at(8, 10))

	require.NoError(t, err)
	require.Equal(t, models.OutcomeLivenessFailed, outcome.Kind)
	require.False(t, outcome.IsLive)
	require.Empty(t, outcome.EmployeeID)
	require.Equal(t, 0, analyzer.encCalls)
}

func TestBlinkThenMatch(t *testing.T) {
	analyzer := &fakeAnalyzer{earFound: true, enc: []float32{1, 0, 0}, encFound: true}
	store := &fakeStore{}
	p := newTestPipeline(t, analyzer, store, nil)
	tracker := liveness.NewTracker(liveness.DefaultConfig())

	now := at(8, 10)
	for _, ear := range []float64{0.3, 0.1, 0.1, 0.1} {
		analyzer.ear = ear
		outcome, err := p.Process(context.Background(), tracker, testFrame, now)
		require.NoError(t, err)
		require.Equal(t, models.OutcomeLivenessFailed, outcome.Kind)
		now = now.Add(100 * time.Millisecond)
	}

	// Eyes reopen: blink completes and the same frame matches.
	analyzer.ear = 0.3
	outcome, err := p.Process(context.Background(), tracker, testFrame, now)
	require.NoError(t, err)
	require.Equal(t, models.OutcomeMatched, outcome.Kind)
	require.True(t, outcome.IsLive)
	require.Equal(t, "e1", outcome.EmployeeID)
	require.Equal(t, "Ann", outcome.Name)
	require.Equal(t, models.StatusCheckedIn, outcome.Status)
	require.Len(t, store.inserted, 1)
}

func TestNilTrackerBypassesGate(t *testing.T) {
	analyzer := &fakeAnalyzer{enc: []float32{1, 0, 0}, encFound: true}
	p := newTestPipeline(t, analyzer, &fakeStore{}, nil)

	outcome, err := p.Process(context.Background(), nil, testFrame, at(8, 10))
	require.NoError(t, err)
	require.Equal(t, models.OutcomeMatched, outcome.Kind)
	require.Equal(t, 0, analyzer.earCalls)
}

func TestNoFaceDetected(t *testing.T) {
	analyzer := &fakeAnalyzer{encFound: false}
	p := newTestPipeline(t, analyzer, &fakeStore{}, nil)

	outcome, err := p.Process(context.Background(), nil, testFrame, at(8, 10))
	require.NoError(t, err)
	require.Equal(t, models.OutcomeNoFaceDetected, outcome.Kind)
}

func TestUnknownFaceLeavesDebounceUntouched(t *testing.T) {
	analyzer := &fakeAnalyzer{enc: []float32{0, 1, 0}, encFound: true}
	store := &fakeStore{}
	p := newTestPipeline(t, analyzer, store, nil)

	outcome, err := p.Process(context.Background(), nil, testFrame, at(8, 10))
	require.NoError(t, err)
	require.Equal(t, models.OutcomeUnknownFace, outcome.Kind)
	require.Empty(t, store.inserted)

	// The enrolled employee can still scan immediately afterwards.
	analyzer.enc = []float32{1, 0, 0}
	outcome, err = p.Process(context.Background(), nil, testFrame, at(8, 10).Add(time.Second))
	require.NoError(t, err)
	require.Equal(t, models.StatusCheckedIn, outcome.Status)
}

func TestRepeatScanHitsCooldown(t *testing.T) {
	analyzer := &fakeAnalyzer{enc: []float32{1, 0, 0}, encFound: true}
	store := &fakeStore{}
	p := newTestPipeline(t, analyzer, store, nil)

	first, err := p.Process(context.Background(), nil, testFrame, at(8, 10))
	require.NoError(t, err)
	require.Equal(t, models.StatusCheckedIn, first.Status)

	second, err := p.Process(context.Background(), nil, testFrame, at(8, 10).Add(2*time.Second))
	require.NoError(t, err)
	require.Equal(t, models.OutcomeMatched, second.Kind)
	require.Equal(t, models.StatusCooldown, second.Status)
	require.Equal(t, "Ann", second.Name)
	require.Len(t, store.inserted, 1)
}

func TestStoreFailureKeepsIdentity(t *testing.T) {
	analyzer := &fakeAnalyzer{enc: []float32{1, 0, 0}, encFound: true}
	store := &fakeStore{insertErr: errors.New("db down")}
	p := newTestPipeline(t, analyzer, store, nil)

	outcome, err := p.Process(context.Background(), nil, testFrame, at(8, 10))
	require.NoError(t, err)
	require.Equal(t, models.OutcomeMatched, outcome.Kind)
	require.Equal(t, models.StatusError, outcome.Status)
	require.Equal(t, "e1", outcome.EmployeeID)
	require.Equal(t, "Ann", outcome.Name)
}

func TestPersistedDecisionIsPublished(t *testing.T) {
	analyzer := &fakeAnalyzer{enc: []float32{1, 0, 0}, encFound: true}
	pub := &fakePublisher{}
	p := newTestPipeline(t, analyzer, &fakeStore{}, pub)

	_, err := p.Process(context.Background(), nil, testFrame, at(8, 10))
	require.NoError(t, err)
	require.Len(t, pub.events, 1)
	require.Equal(t, "e1", pub.events[0].EmployeeID)
	require.Equal(t, models.StatusCheckedIn, pub.events[0].Status)

	// Cooldown produces no event.
	_, err = p.Process(context.Background(), nil, testFrame, at(8, 10).Add(time.Second))
	require.NoError(t, err)
	require.Len(t, pub.events, 1)
}

func TestInferenceErrorPropagates(t *testing.T) {
	analyzer := &fakeAnalyzer{err: errors.New("onnx session closed")}
	p := newTestPipeline(t, analyzer, &fakeStore{}, nil)

	_, err := p.Process(context.Background(), nil, testFrame, at(8, 10))
	require.Error(t, err)
}
