package log

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent(category Category, op string, ts time.Time) Event {
	return Event{
		Timestamp: ts,
		SessionID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		Resource:  "TCPIP0::10.0.0.9::5025::SOCKET",
		Category:  category,
		Op:        op,
	}
}

func TestEventRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 14, 15, 9, 26, 535897932, time.UTC)
	event := testEvent(CategoryReading, "average", ts)
	event.Message = "averaged reading"
	event.Reading = &ReadingEvent{
		Mean:   1.23,
		StdDev: 0.05,
		Count:  100,
		Unit:   "mW",
	}

	data, err := EncodeEvent(event)
	require.NoError(t, err)

	decoded, err := DecodeEvent(data)
	require.NoError(t, err)

	assert.True(t, decoded.Timestamp.Equal(event.Timestamp))
	assert.Equal(t, event.SessionID, decoded.SessionID)
	assert.Equal(t, event.Resource, decoded.Resource)
	assert.Equal(t, event.Category, decoded.Category)
	assert.Equal(t, event.Op, decoded.Op)
	assert.Equal(t, event.Message, decoded.Message)
	require.NotNil(t, decoded.Reading)
	assert.Equal(t, *event.Reading, *decoded.Reading)
	assert.Nil(t, decoded.State)
	assert.Nil(t, decoded.Error)
}

func TestEventDeterministicEncoding(t *testing.T) {
	ts := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	event := testEvent(CategoryState, "", ts)
	event.State = &StateChangeEvent{From: "unopened", To: "open"}

	a, err := EncodeEvent(event)
	require.NoError(t, err)
	b, err := EncodeEvent(event)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "STATE", CategoryState.String())
	assert.Equal(t, "COMMAND", CategoryCommand.String())
	assert.Equal(t, "READING", CategoryReading.String())
	assert.Equal(t, "ERROR", CategoryError.String())
	assert.Equal(t, "UNKNOWN", Category(42).String())
}

func TestFileLoggerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.cborlog")

	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	for i, op := range []string{"set_units", "average", "measure"} {
		event := testEvent(CategoryCommand, op, base.Add(time.Duration(i)*time.Second))
		logger.Log(event)
	}
	require.NoError(t, logger.Close())

	reader, err := NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	events, err := reader.ReadAll(nil)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "set_units", events[0].Op)
	assert.Equal(t, "average", events[1].Op)
	assert.Equal(t, "measure", events[2].Op)
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.cborlog")

	ts := time.Now()
	for range 2 {
		logger, err := NewFileLogger(path)
		require.NoError(t, err)
		logger.Log(testEvent(CategoryState, "", ts))
		require.NoError(t, logger.Close())
	}

	reader, err := NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	events, err := reader.ReadAll(nil)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestFileLoggerCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.cborlog")

	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())

	// Events after close are dropped, not written.
	logger.Log(testEvent(CategoryState, "", time.Now()))

	reader, err := NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	events, err := reader.ReadAll(nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestReaderNextEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.cborlog")

	logger, err := NewFileLogger(path)
	require.NoError(t, err)
	logger.Log(testEvent(CategoryReading, "measure", time.Now()))
	require.NoError(t, logger.Close())

	reader, err := NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.Next()
	require.NoError(t, err)
	_, err = reader.Next()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestReaderFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.cborlog")

	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	early := testEvent(CategoryState, "", base)
	logger.Log(early)

	reading := testEvent(CategoryReading, "average", base.Add(time.Minute))
	logger.Log(reading)

	other := testEvent(CategoryReading, "measure", base.Add(2*time.Minute))
	other.SessionID = "another-session"
	logger.Log(other)

	require.NoError(t, logger.Close())

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{
			name:   "by session",
			filter: Filter{SessionID: early.SessionID},
			want:   2,
		},
		{
			name: "by category",
			filter: Filter{Category: func() *Category {
				c := CategoryReading
				return &c
			}()},
			want: 2,
		},
		{
			name:   "by op",
			filter: Filter{Op: "average"},
			want:   1,
		},
		{
			name: "by time window",
			filter: Filter{
				TimeStart: func() *time.Time { t := base.Add(30 * time.Second); return &t }(),
				TimeEnd:   func() *time.Time { t := base.Add(90 * time.Second); return &t }(),
			},
			want: 1,
		},
		{
			name:   "combined",
			filter: Filter{SessionID: early.SessionID, Op: "measure"},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := NewReader(path)
			require.NoError(t, err)
			defer reader.Close()

			events, err := reader.ReadAll(&tt.filter)
			require.NoError(t, err)
			assert.Len(t, events, tt.want)
		})
	}
}

func TestMultiLogger(t *testing.T) {
	var a, b []Event
	multi := MultiLogger{
		loggerFunc(func(e Event) { a = append(a, e) }),
		nil,
		loggerFunc(func(e Event) { b = append(b, e) }),
	}

	multi.Log(testEvent(CategoryState, "", time.Now()))
	assert.Len(t, a, 1)
	assert.Len(t, b, 1)
}

type loggerFunc func(Event)

func (f loggerFunc) Log(event Event) { f(event) }
