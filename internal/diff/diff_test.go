package diff

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	runerrors "restic-runner/internal/errors"
	"restic-runner/internal/logging"
	"restic-runner/internal/restic"
	"restic-runner/internal/restic/restictest"
)

func listing(ids ...string) []restic.Snapshot {
	base := time.Date(2026, 8, 1, 3, 0, 0, 0, time.UTC)
	snaps := make([]restic.Snapshot, len(ids))
	for i, id := range ids {
		snaps[i] = restic.Snapshot{ID: id, Time: base.Add(time.Duration(i) * time.Hour)}
	}
	return snaps
}

func TestFilterFromFlags_Precedence(t *testing.T) {
	tests := []struct {
		name                     string
		added, modified, removed bool
		want                     Filter
	}{
		{"added and modified wins", true, true, false, FilterAddedOrModified},
		{"added and modified beats removed", true, true, true, FilterAddedOrModified},
		{"added only", true, false, false, FilterAdded},
		{"modified only", false, true, false, FilterModified},
		{"removed only", false, false, true, FilterRemoved},
		{"added beats removed", true, false, true, FilterAdded},
		{"none", false, false, false, FilterNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterFromFlags(tt.added, tt.modified, tt.removed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_Apply(t *testing.T) {
	tests := []struct {
		name     string
		filter   Filter
		line     string
		want     string
		wantPass bool
	}{
		{"none passes everything", FilterNone, "-    /gone/file", "-    /gone/file", true},
		{"added passes full line", FilterAdded, "+    /new/file", "+    /new/file", true},
		{"added drops modified", FilterAdded, "M    /changed", "M    /changed", false},
		{"modified passes full line", FilterModified, "M    /changed", "M    /changed", true},
		{"removed passes full line", FilterRemoved, "-    /gone", "-    /gone", true},
		{"removed drops added", FilterRemoved, "+    /new", "+    /new", false},
		{"added-or-modified extracts path from added", FilterAddedOrModified, "+    /new/file", "/new/file", true},
		{"added-or-modified extracts path from modified", FilterAddedOrModified, "M    /changed/file", "/changed/file", true},
		{"added-or-modified drops removed", FilterAddedOrModified, "-    /gone", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pass := tt.filter.Apply(tt.line)
			assert.Equal(t, tt.wantPass, pass)
			if pass {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSelectPair(t *testing.T) {
	tests := []struct {
		name               string
		explicit           []string
		snaps              []restic.Snapshot
		wantID1, wantID2   string
		wantErr            error
	}{
		{
			name:     "two explicit ids preserved in caller order",
			explicit: []string{"bbb", "aaa"},
			snaps:    nil,
			wantID1:  "bbb",
			wantID2:  "aaa",
		},
		{
			name:     "one explicit id paired with most recent",
			explicit: []string{"xyz"},
			snaps:    listing("s1", "s2", "s3"),
			wantID1:  "xyz",
			wantID2:  "s3",
		},
		{
			name:     "one explicit id with empty listing",
			explicit: []string{"xyz"},
			snaps:    nil,
			wantErr:  runerrors.ErrInsufficientSnapshots,
		},
		{
			name:    "no explicit ids takes the two most recent",
			snaps:   listing("s1", "s2", "s3", "s4"),
			wantID1: "s3",
			wantID2: "s4",
		},
		{
			name:    "exactly two snapshots",
			snaps:   listing("s1", "s2"),
			wantID1: "s1",
			wantID2: "s2",
		},
		{
			name:    "single snapshot is insufficient",
			snaps:   listing("s1"),
			wantErr: runerrors.ErrInsufficientSnapshots,
		},
		{
			name:    "empty listing is insufficient",
			snaps:   nil,
			wantErr: runerrors.ErrInsufficientSnapshots,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1, id2, err := SelectPair(tt.explicit, tt.snaps)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID1, id1)
			assert.Equal(t, tt.wantID2, id2)
		})
	}
}

func TestRun_StreamsFilteredLines(t *testing.T) {
	fake := &restictest.Fake{
		SnapshotsResult: listing("s1", "s2"),
		DiffLines: []string{
			"+    /home/user/new.txt",
			"M    /home/user/changed.txt",
			"-    /home/user/gone.txt",
		},
	}
	eng := &Engine{Backend: fake, Tag: "nightly", Log: logging.ForTest(t)}

	var out bytes.Buffer
	err := eng.Run(context.Background(), nil, FilterAdded, &out)
	require.NoError(t, err)

	assert.Equal(t, "+    /home/user/new.txt\n", out.String())
	require.Len(t, fake.DiffCalls, 1)
	assert.Equal(t, restictest.DiffCall{ID1: "s1", ID2: "s2"}, fake.DiffCalls[0])
}

func TestRun_ExplicitPairSkipsListing(t *testing.T) {
	fake := &restictest.Fake{
		SnapshotsErr: errors.New("listing should not be fetched"),
		DiffLines:    []string{"M    /f"},
	}
	eng := &Engine{Backend: fake, Log: logging.ForTest(t)}

	var out bytes.Buffer
	err := eng.Run(context.Background(), []string{"a", "b"}, FilterNone, &out)
	require.NoError(t, err)
	assert.Equal(t, "M    /f\n", out.String())
}

func TestRun_InsufficientSnapshotsNoDiffAttempted(t *testing.T) {
	fake := &restictest.Fake{SnapshotsResult: listing("only")}
	eng := &Engine{Backend: fake, Log: logging.ForTest(t)}

	err := eng.Run(context.Background(), nil, FilterNone, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, runerrors.ErrInsufficientSnapshots))
	assert.Empty(t, fake.DiffCalls)
}
